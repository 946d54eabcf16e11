package observability

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/appengine-ltd/craftworks/internal/crafting"
)

var (
	registerOnce sync.Once

	executions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "craftworks",
			Subsystem: "engine",
			Name:      "executions_total",
			Help:      "Recipe executions by kind and outcome.",
		},
		[]string{"kind", "recipe", "outcome"},
	)
	instancesRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "craftworks",
			Subsystem: "store",
			Name:      "instances_registered_total",
			Help:      "Instances added to the ledger.",
		},
	)
	instancesRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "craftworks",
			Subsystem: "store",
			Name:      "instances_removed_total",
			Help:      "Instances removed from the live set.",
		},
	)
	liveInstances = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "craftworks",
			Subsystem: "store",
			Name:      "live_instances",
			Help:      "Instances currently in the live set.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(executions, instancesRegistered, instancesRemoved, liveInstances)
	})
}

// EngineRecorder feeds engine activity into the package metrics.
type EngineRecorder struct{}

func NewEngineRecorder() EngineRecorder {
	RegisterMetrics()
	return EngineRecorder{}
}

func (EngineRecorder) RecordExecution(kind crafting.RecipeKind, recipe crafting.RecipeID, err error) {
	executions.WithLabelValues(string(kind), string(recipe), Outcome(err)).Inc()
}

func (EngineRecorder) RecordCommit(registered, removed, live int) {
	instancesRegistered.Add(float64(registered))
	instancesRemoved.Add(float64(removed))
	liveInstances.Set(float64(live))
}

var outcomes = []struct {
	err   error
	label string
}{
	{crafting.ErrNotFound, "not_found"},
	{crafting.ErrWrongInstanceKind, "wrong_instance_kind"},
	{crafting.ErrNotASubmaterialItem, "not_a_submaterial_item"},
	{crafting.ErrNotAComposite, "not_a_composite"},
	{crafting.ErrMaterialMismatch, "material_mismatch"},
	{crafting.ErrQuantityInsufficient, "quantity_insufficient"},
	{crafting.ErrSlotCoverage, "slot_coverage"},
	{crafting.ErrSlotKindMismatch, "slot_kind_mismatch"},
	{crafting.ErrSlotFilledMultipleTimes, "slot_filled_multiple_times"},
	{crafting.ErrUnknownSlot, "unknown_slot"},
	{crafting.ErrRequirementUnmet, "requirement_unmet"},
	{crafting.ErrDuplicateInput, "duplicate_input"},
}

// Outcome maps an execution error onto a bounded label set.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}
