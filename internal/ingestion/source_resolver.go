package ingestion

import (
	"fmt"
	"sort"
	"strings"
	"trd/internal/models"
	"trd/internal/structures"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const platformsKey = "platforms"

// SourceResolver re-reads the platform list from the config file on every
// call so edits take effect on the next cycle without a restart.
type SourceResolver struct {
	path string
}

func NewSourceResolver(conf *structures.Config) *SourceResolver {
	return &SourceResolver{path: conf.Path}
}

func (r *SourceResolver) Sources() ([]models.Source, error) {
	v := viper.New()
	v.SetConfigFile(r.path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return ParseSources(v.Get(platformsKey))
}

// ParseSources accepts either a list (of {id, name, enabled} maps or bare
// ids) or a map of id to display name. Map keys come back lower-cased from
// viper and are returned sorted; list order is preserved. Duplicate ids keep
// their first occurrence.
func ParseSources(raw interface{}) ([]models.Source, error) {
	if raw == nil {
		return nil, nil
	}

	var sources []models.Source
	seen := make(map[string]struct{})
	add := func(id, name string) {
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		if name = strings.TrimSpace(name); name == "" {
			name = id
		}
		sources = append(sources, models.Source{ID: id, Name: name})
	}

	switch val := raw.(type) {
	case []interface{}:
		for i, entry := range val {
			if id, ok := entry.(string); ok {
				add(id, "")
				continue
			}
			m, err := cast.ToStringMapE(entry)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", platformsKey, i, err)
			}
			if enabled, ok := m["enabled"]; ok && !cast.ToBool(enabled) {
				continue
			}
			add(cast.ToString(m["id"]), cast.ToString(m["name"]))
		}
	default:
		m, err := cast.ToStringMapE(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: unsupported format %T", platformsKey, raw)
		}
		ids := make([]string, 0, len(m))
		for id := range m {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			add(id, cast.ToString(m[id]))
		}
	}

	return sources, nil
}

// StaticSourceResolver serves a fixed list.
type StaticSourceResolver []models.Source

func (s StaticSourceResolver) Sources() ([]models.Source, error) {
	return s, nil
}
