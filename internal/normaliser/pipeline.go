package normaliser

// Layer is one rewrite step applied to a single line of text.
type Layer interface {
	// Name identifies the layer in logs and tests.
	Name() string

	// Apply rewrites one line. It must not introduce newlines.
	Apply(line string) string
}

// Pipeline chains layers and runs them in order.
type Pipeline struct {
	layers []Layer
}

// NewPipeline creates a pipeline with the given layers.
// Layers are executed in the order provided.
func NewPipeline(layers ...Layer) *Pipeline {
	return &Pipeline{
		layers: layers,
	}
}

// Apply runs the line through every layer in order.
func (p *Pipeline) Apply(line string) string {
	for _, layer := range p.layers {
		line = layer.Apply(line)
	}
	return line
}

// Add appends a layer to the pipeline.
func (p *Pipeline) Add(layer Layer) {
	p.layers = append(p.layers, layer)
}

// Len returns the number of layers in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.layers)
}

// Names returns the layer names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.layers))
	for i, layer := range p.layers {
		names[i] = layer.Name()
	}
	return names
}
