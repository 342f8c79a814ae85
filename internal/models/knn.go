package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

const (
	DistanceEuclidean = "euclidean"
	DistanceManhattan = "manhattan"

	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// KNN is a k-nearest-neighbors classifier. With distance weights each
// neighbor votes 1/d; neighbors at distance zero, when present, take the
// whole vote.
type KNN struct {
	BaseModel
	K        int
	Distance string
	Weights  string
	XTrain   [][]decimal.Decimal
	yTrain   []int
	// XTrain as floats; distances are computed in float64
	xTrain     [][]float64
	classIndex map[int]int
}

func NewKNN(k int, distance, weights string) *KNN {
	if k <= 0 {
		k = 5
	}

	if distance != DistanceEuclidean && distance != DistanceManhattan {
		distance = DistanceEuclidean
	}

	if weights != WeightsUniform && weights != WeightsDistance {
		weights = WeightsDistance
	}

	return &KNN{
		K:        k,
		Distance: distance,
		Weights:  weights,
		BaseModel: BaseModel{
			Name: "KNN",
			Params: map[string]any{
				"k":        k,
				"distance": distance,
				"weights":  weights,
			},
		},
	}
}

func (knn *KNN) Fit(X [][]decimal.Decimal, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("cannot fit on empty dataset")
	}
	if len(X) != len(y) {
		return fmt.Errorf("x and y must have the same length: %d vs %d", len(X), len(y))
	}

	nFeatures := len(X[0])
	knn.XTrain = make([][]decimal.Decimal, len(X))
	knn.xTrain = make([][]float64, len(X))
	for i := range X {
		if len(X[i]) != nFeatures {
			return fmt.Errorf("inconsistent feature count at sample %d: expected %d, got %d", i, nFeatures, len(X[i]))
		}
		knn.XTrain[i] = make([]decimal.Decimal, nFeatures)
		copy(knn.XTrain[i], X[i])

		knn.xTrain[i] = make([]float64, nFeatures)
		for j, v := range X[i] {
			knn.xTrain[i][j] = v.InexactFloat64()
		}
	}

	knn.yTrain = make([]int, len(y))
	copy(knn.yTrain, y)

	knn.Classes = ExtractClasses(y)
	knn.classIndex = make(map[int]int, len(knn.Classes))
	for i, c := range knn.Classes {
		knn.classIndex[c] = i
	}
	return nil
}

func (knn *KNN) Predict(X [][]decimal.Decimal) ([]int, error) {
	proba, err := knn.PredictProba(X)
	if err != nil {
		return nil, err
	}

	predictions := make([]int, len(proba))
	for i, row := range proba {
		predictions[i] = knn.Classes[ArgMax(row)]
	}
	return predictions, nil
}

func (knn *KNN) PredictProba(X [][]decimal.Decimal) ([][]decimal.Decimal, error) {
	if len(knn.xTrain) == 0 {
		return nil, fmt.Errorf("model must be fitted before prediction")
	}

	nFeatures := len(knn.xTrain[0])
	proba := make([][]decimal.Decimal, len(X))

	for i, sample := range X {
		if len(sample) != nFeatures {
			return nil, fmt.Errorf("sample %d has %d features, model expects %d", i, len(sample), nFeatures)
		}
		neighbors := knn.findNeighbors(sample)
		proba[i] = knn.calculateProbabilities(neighbors)
	}

	return proba, nil
}

type neighbor struct {
	index    int
	distance float64
}

// findNeighbors returns the k closest training rows. Equal distances keep
// training order.
func (knn *KNN) findNeighbors(sample []decimal.Decimal) []neighbor {
	point := make([]float64, len(sample))
	for j, v := range sample {
		point[j] = v.InexactFloat64()
	}

	neighbors := make([]neighbor, len(knn.xTrain))
	for i, trainSample := range knn.xTrain {
		neighbors[i] = neighbor{index: i, distance: knn.calculateDistance(point, trainSample)}
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].distance < neighbors[j].distance
	})

	k := knn.K
	if k > len(neighbors) {
		k = len(neighbors)
	}
	return neighbors[:k]
}

func (knn *KNN) calculateDistance(a, b []float64) float64 {
	switch knn.Distance {
	case DistanceManhattan:
		sum := 0.0
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	default:
		sum := 0.0
		for i := range a {
			diff := a[i] - b[i]
			sum += diff * diff
		}
		return math.Sqrt(sum)
	}
}

func (knn *KNN) weights(neighbors []neighbor) []decimal.Decimal {
	w := make([]decimal.Decimal, len(neighbors))
	if knn.Weights == WeightsUniform {
		for i := range w {
			w[i] = decimal.NewFromInt(1)
		}
		return w
	}

	exact := false
	for _, n := range neighbors {
		if n.distance == 0 {
			exact = true
			break
		}
	}

	for i, n := range neighbors {
		switch {
		case exact && n.distance == 0:
			w[i] = decimal.NewFromInt(1)
		case exact:
			w[i] = decimal.Zero
		default:
			w[i] = decimal.NewFromFloat(1 / n.distance)
		}
	}
	return w
}

func (knn *KNN) calculateProbabilities(neighbors []neighbor) []decimal.Decimal {
	proba := make([]decimal.Decimal, len(knn.Classes))
	for i := range proba {
		proba[i] = decimal.Zero
	}

	total := decimal.Zero
	for i, w := range knn.weights(neighbors) {
		idx := knn.classIndex[knn.yTrain[neighbors[i].index]]
		proba[idx] = proba[idx].Add(w)
		total = total.Add(w)
	}

	if total.IsZero() {
		return proba
	}
	for i := range proba {
		if !proba[i].IsZero() {
			proba[i] = proba[i].Div(total)
		}
	}
	return proba
}
