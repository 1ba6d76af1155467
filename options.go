package sandsim

// Option configures a Simulation during creation.
// Use functional options to customize Simulation behavior.
//
// Example:
//
//	// Default kernel for this CPU, one layer, clamped edges
//	sim, _ := sandsim.New(400, 300)
//
//	// Sixteen wrapped layers on the 256-bit kernel
//	sim, _ := sandsim.New(400, 300,
//	    sandsim.WithLayers(16),
//	    sandsim.WithKernel("wide256"),
//	    sandsim.WithBoundary(sandsim.BoundaryWrap))
type Option func(*options)

// options holds optional configuration for Simulation creation.
type options struct {
	layers           int
	kernelName       string
	kernel           Kernel
	boundary         Boundary
	workers          int
	stampProbability float64
	seed             uint64
}

// defaultOptions returns the default simulation options.
func defaultOptions() options {
	return options{
		layers:           1,
		kernelName:       "", // DefaultKernelName
		boundary:         BoundaryClamp,
		stampProbability: 1,
	}
}

// WithLayers sets the number of independent layers.
func WithLayers(n int) Option {
	return func(o *options) {
		o.layers = n
	}
}

// WithKernel selects a registered kernel by name.
// The empty string selects DefaultKernelName.
func WithKernel(name string) Option {
	return func(o *options) {
		o.kernelName = name
	}
}

// WithKernelInstance uses k instead of creating a kernel from the registry.
// The Simulation takes ownership and closes k in Close. WithBoundary and
// WithWorkers do not apply to k.
func WithKernelInstance(k Kernel) Option {
	return func(o *options) {
		o.kernel = k
	}
}

// WithBoundary sets the horizontal edge policy.
func WithBoundary(b Boundary) Option {
	return func(o *options) {
		o.boundary = b
	}
}

// WithWorkers bounds how many layers are advanced concurrently.
// 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithStampProbability sets the chance that AddSand fills each cell of the
// disc. 1 stamps deterministically; 0.7 gives a speckled brush.
func WithStampProbability(p float64) Option {
	return func(o *options) {
		o.stampProbability = p
	}
}

// WithSeed seeds the random source used by AddSand and Randomize.
// 0 picks a random seed.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
	}
}
