package diffusion

import (
	"fmt"
	"strconv"

	"github.com/kilianp07/ecmprep/core/model"
)

// Kind tags the shape of a diffusion specification.
type Kind int

const (
	KindMissing Kind = iota
	KindConstant
	KindSchedule
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindConstant:
		return "constant"
	case KindSchedule:
		return "schedule"
	case KindRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Spec is the diffusion coefficient as supplied on a measure.
type Spec struct {
	Kind     Kind
	Constant float64
	Schedule model.Series
	Raw      string
}

// Missing returns the spec used when the measure carries no coefficient.
func Missing() Spec { return Spec{Kind: KindMissing} }

// Constant returns a spec applying v to every year.
func Constant(v float64) Spec { return Spec{Kind: KindConstant, Constant: v} }

// Schedule returns a per-year spec. The map is copied.
func Schedule(s model.Series) Spec { return Spec{Kind: KindSchedule, Schedule: s.Clone()} }

// Raw returns a spec that must be parsed before use.
func Raw(s string) Spec { return Spec{Kind: KindRaw, Raw: s} }

// FromAny converts a decoded YAML or JSON value into a Spec. Values of an
// unexpected type become Raw specs holding their printed form, so they take
// the warning path during resolution.
func FromAny(v any) Spec {
	switch t := v.(type) {
	case nil:
		return Missing()
	case float64:
		return Constant(t)
	case float32:
		return Constant(float64(t))
	case int:
		return Constant(float64(t))
	case int64:
		return Constant(float64(t))
	case string:
		return Raw(t)
	case map[string]float64:
		return Schedule(t)
	case map[string]any:
		s := make(model.Series, len(t))
		for year, raw := range t {
			f, ok := toFloat(raw)
			if !ok {
				return Raw(fmt.Sprint(v))
			}
			s[year] = f
		}
		return Schedule(s)
	case map[int]any:
		s := make(model.Series, len(t))
		for year, raw := range t {
			f, ok := toFloat(raw)
			if !ok {
				return Raw(fmt.Sprint(v))
			}
			s[strconv.Itoa(year)] = f
		}
		return Schedule(s)
	default:
		return Raw(fmt.Sprint(v))
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
