package recon

// ScalePolicy maps a descriptor's scale configuration to a desired
// instance count. Implementations must be pure: calling Instances twice
// with the same receiver yields the same result.
type ScalePolicy interface {
	// Instances returns the desired instance count, always >= 1, together
	// with any diagnostics about the configured value. The name is used
	// in diagnostic messages only.
	Instances(name string) (int, Diagnostics)
}

// Fixed is a user-configured scale. A configured count of zero (or a
// negative one) is coerced to one with a warning: scaling a configured
// resource to zero instances would silently disable it.
type Fixed struct {
	Count int
}

// Instances implements ScalePolicy.
func (f Fixed) Instances(name string) (int, Diagnostics) {
	var diags Diagnostics
	if f.Count < 1 {
		diags.Warningf("turning scale in %s from %d to 1", name, f.Count)
		return 1, diags
	}
	return f.Count, diags
}

// Singleton always yields exactly one instance and has no configuration
// surface.
type Singleton struct{}

// Instances implements ScalePolicy.
func (Singleton) Instances(string) (int, Diagnostics) {
	return 1, Diagnostics{}
}
