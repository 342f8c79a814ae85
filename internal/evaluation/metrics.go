package evaluation

import (
	"fmt"
	"math"
)

type ClassificationMetrics struct {
	Accuracy        float64              `json:"accuracy" yaml:"accuracy"`
	MacroPrecision  float64              `json:"macro_precision" yaml:"macro_precision"`
	MacroRecall     float64              `json:"macro_recall" yaml:"macro_recall"`
	MacroF1         float64              `json:"macro_f1" yaml:"macro_f1"`
	WeightedF1      float64              `json:"weighted_f1" yaml:"weighted_f1"`
	PerClassMetrics map[int]ClassMetrics `json:"per_class_metrics" yaml:"-"`
	ConfusionMatrix [][]int              `json:"confusion_matrix" yaml:"-"`
	NumSamples      int                  `json:"num_samples" yaml:"num_samples"`
	NumClasses      int                  `json:"num_classes" yaml:"num_classes"`
}

type ClassMetrics struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1Score   float64 `json:"f1_score" yaml:"f1_score"`
	Support   int     `json:"support" yaml:"support"`
}

// CalculateMetrics scores predictions against the truth over the given
// classes. Macro averages weight every class equally, including classes
// absent from yTrue.
func CalculateMetrics(yTrue, yPred []int, classes []int) (*ClassificationMetrics, error) {
	if len(yTrue) != len(yPred) {
		return nil, fmt.Errorf("prediction count %d does not match truth count %d", len(yPred), len(yTrue))
	}
	if len(classes) == 0 {
		return nil, fmt.Errorf("no classes to score")
	}

	numSamples := len(yTrue)
	numClasses := len(classes)

	confusionMatrix := buildConfusionMatrix(yTrue, yPred, classes)

	classSupport := make(map[int]int)
	for _, class := range yTrue {
		classSupport[class]++
	}

	perClassMetrics := make(map[int]ClassMetrics, numClasses)
	var macroPrec, macroRec, macroF1, weightedF1 float64
	totalSupport := 0

	for i, class := range classes {
		tp := confusionMatrix[i][i]
		fp := 0
		fn := 0
		for j := range classes {
			if j != i {
				fp += confusionMatrix[j][i]
				fn += confusionMatrix[i][j]
			}
		}

		precision := safeDivide(float64(tp), float64(tp+fp))
		recall := safeDivide(float64(tp), float64(tp+fn))
		f1 := safeDivide(2*precision*recall, precision+recall)

		support := classSupport[class]
		perClassMetrics[class] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1Score:   f1,
			Support:   support,
		}

		macroPrec += precision
		macroRec += recall
		macroF1 += f1
		weightedF1 += f1 * float64(support)
		totalSupport += support
	}

	correct := 0
	for i, pred := range yPred {
		if pred == yTrue[i] {
			correct++
		}
	}

	return &ClassificationMetrics{
		Accuracy:        safeDivide(float64(correct), float64(numSamples)),
		MacroPrecision:  macroPrec / float64(numClasses),
		MacroRecall:     macroRec / float64(numClasses),
		MacroF1:         macroF1 / float64(numClasses),
		WeightedF1:      safeDivide(weightedF1, float64(totalSupport)),
		PerClassMetrics: perClassMetrics,
		ConfusionMatrix: confusionMatrix,
		NumSamples:      numSamples,
		NumClasses:      numClasses,
	}, nil
}

func buildConfusionMatrix(yTrue, yPred []int, classes []int) [][]int {
	numClasses := len(classes)
	matrix := make([][]int, numClasses)
	for i := range matrix {
		matrix[i] = make([]int, numClasses)
	}

	classToIdx := make(map[int]int)
	for i, class := range classes {
		classToIdx[class] = i
	}

	for i := range yTrue {
		trueIdx, trueOk := classToIdx[yTrue[i]]
		predIdx, predOk := classToIdx[yPred[i]]
		if trueOk && predOk {
			matrix[trueIdx][predIdx]++
		}
	}

	return matrix
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0.0
	}
	return result
}

func (m *ClassificationMetrics) FormatMetrics() string {
	result := fmt.Sprintf("Accuracy: %.4f\n", m.Accuracy)
	result += fmt.Sprintf("Macro Avg - Precision: %.4f, Recall: %.4f, F1: %.4f\n",
		m.MacroPrecision, m.MacroRecall, m.MacroF1)
	result += fmt.Sprintf("Weighted F1: %.4f\n", m.WeightedF1)
	return result
}
