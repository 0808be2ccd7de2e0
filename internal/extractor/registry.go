package extractor

import (
	"fmt"
	"sort"
)

// Detector classifies and consumes a single cleaned line.
type Detector struct {
	// Name identifies the detector in the rules file and in logs.
	Name string

	// Match reports whether the detector claims the line.
	Match func(line string) bool

	// Apply updates the record under construction. lines and i give
	// access to the surrounding lines for lookahead.
	Apply func(b *builder, lines []string, i int)
}

// BuilderFunc creates a Detector for the given configuration.
type BuilderFunc func(cfg *Config) Detector

// Registry maps detector names to their builders.
// The order in which detectors run is not the registry's concern; it
// comes from the rules file.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates an empty detector registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a detector builder to the registry.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a detector by name.
func (r *Registry) Build(name string, cfg *Config) (Detector, error) {
	builder, ok := r.builders[name]
	if !ok {
		return Detector{}, fmt.Errorf("unknown detector: %s", name)
	}
	d := builder(cfg)
	d.Name = name
	return d, nil
}

// Has returns true if a detector with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered detector names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterDefaults registers every built-in detector.
func RegisterDefaults(r *Registry) {
	r.Register(DetectorPassenger, passengerDetector)
	r.Register(DetectorBilling, billingDetector)
	r.Register(DetectorCompany, companyDetector)
	r.Register(DetectorReservation, reservationDetector)
	r.Register(DetectorRooms, roomsDetector)
	r.Register(DetectorVoucher, voucherDetector)
	r.Register(DetectorCheckIn, checkInDetector)
	r.Register(DetectorCheckOut, checkOutDetector)
	r.Register(DetectorLengthOfStay, lengthOfStayDetector)
	r.Register(DetectorAccommodation, accommodationDetector)
	r.Register(DetectorLaundry, laundryDetector)
	r.Register(DetectorMealPlan, mealPlanDetector)
	r.Register(DetectorService, serviceDetector)
	r.Register(DetectorTransport, transportDetector)
}
