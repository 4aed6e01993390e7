// Package factory provides a small generic registry used to build pluggable
// components, such as adoption schemes and metrics sinks, from configuration.
// A component is named by a type string and configured by a map of raw
// settings that its factory decodes into a typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[competition.Scheme]()
//	reg.Register("turnover", func(conf map[string]any) (competition.Scheme, error) {
//	    var c struct{ Name string `json:"name"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return competition.Scheme{}, err
//	    }
//	    return competition.Scheme{Name: c.Name}, nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "turnover", Conf: map[string]any{"name": "Slow"}})
package factory
