package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

// Handler returns an http.Handler serving the registry in Prometheus text
// exposition format.
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		fmt.Fprint(w, r.Exposition())
	})
}

// Exposition renders all registered metrics in Prometheus text format.
func (r *Registry) Exposition() string {
	var b strings.Builder
	for _, m := range r.Gather() {
		fmt.Fprintf(&b, "# HELP %s %s\n", m.Name(), m.Help())
		fmt.Fprintf(&b, "# TYPE %s %s\n", m.Name(), m.Type())
		samples := m.Collect()
		sort.Slice(samples, func(i, j int) bool {
			if samples[i].Name != samples[j].Name {
				return samples[i].Name < samples[j].Name
			}
			return labelString(samples[i].Labels) < labelString(samples[j].Labels)
		})
		for _, s := range samples {
			b.WriteString(s.Name)
			b.WriteString(labelString(s.Labels))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(s.Value, 'g', -1, 64))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func labelString(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Quote(labels[k]))
	}
	b.WriteByte('}')
	return b.String()
}
