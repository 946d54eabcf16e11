package crafting

import "fmt"

type FormulaKind int

const (
	FormulaMinOfInputs FormulaKind = iota
	FormulaAverageOfInputs
	FormulaWeighted
	FormulaCustom
)

func (k FormulaKind) String() string {
	switch k {
	case FormulaMinOfInputs:
		return "min_of_inputs"
	case FormulaAverageOfInputs:
		return "average_of_inputs"
	case FormulaWeighted:
		return "weighted"
	case FormulaCustom:
		return "custom"
	default:
		return fmt.Sprintf("formula(%d)", int(k))
	}
}

// QualityFormula decides the quality of a composite from the graded
// components that filled its slots. The zero value is MinOfInputs.
type QualityFormula struct {
	Kind    FormulaKind
	Weights []SlotWeight
	Policy  string
}

type SlotWeight struct {
	Slot   string
	Weight float64
}

func MinOfInputs() QualityFormula {
	return QualityFormula{Kind: FormulaMinOfInputs}
}

func AverageOfInputs() QualityFormula {
	return QualityFormula{Kind: FormulaAverageOfInputs}
}

func Weighted(weights ...SlotWeight) QualityFormula {
	return QualityFormula{Kind: FormulaWeighted, Weights: weights}
}

func Custom(policy string) QualityFormula {
	return QualityFormula{Kind: FormulaCustom, Policy: policy}
}

// SlotQuality is the grade of the component that filled a slot.
type SlotQuality struct {
	Slot    string
	Quality Quality
}

// QualityPolicy backs Custom formulas. It receives only graded slots, in the
// composite's slot order.
type QualityPolicy func(recipe CompositeRecipe, inputs []SlotQuality) (Quality, error)

func (f QualityFormula) compute(recipe CompositeRecipe, inputs []SlotQuality, policies map[string]QualityPolicy) (Quality, error) {
	switch f.Kind {
	case FormulaMinOfInputs:
		if len(inputs) == 0 {
			return QualityCommon, nil
		}
		lowest := inputs[0].Quality
		for _, in := range inputs[1:] {
			lowest = min(lowest, in.Quality)
		}
		return lowest, nil
	case FormulaAverageOfInputs:
		if len(inputs) == 0 {
			return QualityCommon, nil
		}
		sum := 0
		for _, in := range inputs {
			sum += int(in.Quality)
		}
		return qualityFromRank(sum / len(inputs)), nil
	case FormulaWeighted:
		weights := make(map[string]float64, len(f.Weights))
		for _, w := range f.Weights {
			weights[w.Slot] = w.Weight
		}
		var total, acc float64
		for _, in := range inputs {
			w, ok := weights[in.Slot]
			if !ok || w <= 0 {
				continue
			}
			total += w
			acc += w * float64(in.Quality)
		}
		if total == 0 {
			return QualityCommon, nil
		}
		return qualityFromRank(int(acc / total)), nil
	case FormulaCustom:
		policy, ok := policies[f.Policy]
		if !ok || policy == nil {
			return 0, notFound(EntityQualityPolicy, f.Policy)
		}
		q, err := policy(recipe, inputs)
		if err != nil {
			return 0, fmt.Errorf("quality policy %s: %w", f.Policy, err)
		}
		if !q.Valid() {
			return 0, fmt.Errorf("quality policy %s returned %s", f.Policy, q)
		}
		return q, nil
	default:
		return 0, fmt.Errorf("unknown quality formula: %s", f.Kind)
	}
}
