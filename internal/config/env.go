package config

import "github.com/sethvargo/go-envconfig"

// nonEmpty treats variables that are set to the empty string as unset, so
// `PORT=` falls back to the default the way `${PORT:-8000}` does in the
// rendered script.
func nonEmpty(l envconfig.Lookuper) envconfig.Lookuper {
	if _, ok := l.(nonEmptyLookuper); ok {
		return l
	}
	return nonEmptyLookuper{l: l}
}

type nonEmptyLookuper struct {
	l envconfig.Lookuper
}

func (n nonEmptyLookuper) Lookup(key string) (string, bool) {
	v, ok := n.l.Lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
