package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	cerrors "croprec/internal/errors"
	"croprec/internal/features"
	"croprec/internal/locale"
	"croprec/internal/recommender"
)

// Predictor ranks crops for feature vectors.
type Predictor interface {
	TopCrops(vectors []features.Vector) (recommender.Ranking, error)
}

// handlePredict handles POST /predict and POST /v1/predict
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	payload, err := s.decodePayload(w, r)
	if err != nil {
		writeStructuredError(w, r, err)
		return
	}

	vector, err := vectorFromPayload(payload)
	if err != nil {
		writeStructuredError(w, r, err)
		return
	}

	ranking, err := s.predictor.TopCrops([]features.Vector{vector})
	if err != nil {
		writeStructuredError(w, r, err)
		return
	}

	tr := locale.For(langFromPayload(payload))
	if tr != locale.English {
		ranking = ranking.Relabel(tr.Crop)
	}
	w.Header().Set("Content-Language", tr.Tag().String())

	RespondJSON(w, http.StatusOK, ranking)
}

func (s *Server) decodePayload(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
				"request body too large", map[string]any{"limit": tooLarge.Limit})
		case errors.Is(err, io.EOF):
			return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "request body is empty")
		default:
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "request body must be a JSON object", err)
		}
	}
	if payload == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "request body must be a JSON object")
	}
	return payload, nil
}

// vectorFromPayload picks ordered mode when "sample" is present and named
// mode otherwise.
func vectorFromPayload(payload map[string]any) (features.Vector, error) {
	if raw, ok := payload["sample"]; ok {
		sample, ok := raw.([]any)
		if !ok {
			return features.Vector{}, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("'sample' must be a list with at least %d numeric values", features.Count),
				map[string]any{"expected": features.Count})
		}
		return features.FromSample(sample)
	}

	if nested, ok := payload["features"].(map[string]any); ok {
		return features.FromNamed(nested)
	}
	return features.FromNamed(payload)
}

func langFromPayload(payload map[string]any) string {
	switch v := payload["lang"].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
