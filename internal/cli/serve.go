package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"croprec/internal/recommender"
	"croprec/internal/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Train the classifier and serve predictions over HTTP",
		Description: `Trains the classifier from the dataset and starts the HTTP API.
Training failures abort before the server listens.

The dataset is not bundled. Download the public Crop Recommendation CSV
(2200 rows, 22 crops) and point --dataset or CROPREC_DATASET at it, or place
it at data/crop_recommendation.csv. Its header must name the columns
N,P,K,temperature,humidity,ph,rainfall,label (any order; aliases such as
nitrogen, temp, rain and crop are accepted).

Endpoints: POST /predict, POST /v1/predict, GET /health, GET /ready, GET /metrics.
With --client-dir the web client is served at /, /es and /static/.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "address",
				Usage: "Address to listen on (default all interfaces)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
			&cli.StringFlag{
				Name:  "client-dir",
				Usage: "Directory with index.html, index.es.html and static assets",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Sustained prediction requests per second",
			},
			&cli.IntFlag{
				Name:  "rate-burst",
				Usage: "Prediction request burst size",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := configFrom(ctx)

			if cmd.IsSet("address") {
				cfg.Server.Address = cmd.String("address")
			}
			if cmd.IsSet("port") {
				cfg.Server.Port = cmd.Int("port")
			}
			if cmd.IsSet("client-dir") {
				cfg.Server.ClientDir = cmd.String("client-dir")
			}
			if cmd.IsSet("rate-limit") {
				cfg.Server.RateLimit = cmd.Float("rate-limit")
			}
			if cmd.IsSet("rate-burst") {
				cfg.Server.RateBurst = cmd.Int("rate-burst")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			artifacts, err := train(ctx, cfg)
			if err != nil {
				return err
			}

			srvCfg := server.ConfigFrom(cfg.Server)
			srvCfg.Name = name
			srvCfg.Version = version

			slog.Info("model ready",
				"classes", len(artifacts.Report.Classes),
				"train", artifacts.Report.TrainSize)

			return server.Run(ctx, srvCfg, recommender.NewPredictor(artifacts, cfg.Model.TopN))
		},
	}
}
