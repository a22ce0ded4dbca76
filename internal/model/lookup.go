package model

import "fmt"

// Analysis resolves an analysis by name.
func (c Config) Analysis(name string) (AnalysisConfig, error) {
	for _, a := range c.Analyses {
		if a.Name == name {
			return a, nil
		}
	}
	return AnalysisConfig{}, fmt.Errorf("%w: %s", ErrUnknownAnalysis, name)
}

// Extension resolves an extension by name.
func (c Config) Extension(name string) (ExtensionConfig, error) {
	for _, e := range c.Extensions {
		if e.Name == name {
			return e, nil
		}
	}
	return ExtensionConfig{}, fmt.Errorf("%w: %s", ErrUnknownExtension, name)
}

// Queue resolves a queue by name. An empty name selects the first
// configured queue; load-based selection is a future enhancement, the
// current contract is first-listed-wins.
func (c Config) Queue(name string) (QueueConfig, error) {
	if name == "" {
		if len(c.Queues) == 0 {
			return QueueConfig{}, fmt.Errorf("%w: no queues configured", ErrUnknownQueue)
		}
		return c.Queues[0], nil
	}
	for _, q := range c.Queues {
		if q.Name == name {
			return q, nil
		}
	}
	return QueueConfig{}, fmt.Errorf("%w: %s", ErrUnknownQueue, name)
}

// AnalysesInGroup returns every analysis carrying the given group tag,
// in configuration order.
func (c Config) AnalysesInGroup(tag string) []AnalysisConfig {
	var out []AnalysisConfig
	for _, a := range c.Analyses {
		if a.Group == tag {
			out = append(out, a)
		}
	}
	return out
}
