package router

import "cinereview/internal/transport/http/ez"

// Module mounts a feature's routes.
type Module interface{ Mount(ez.EZ) }

type Registry struct {
	mods []Module
}

func (r *Registry) Register(mods ...Module) {
	for _, m := range mods {
		if m != nil {
			r.mods = append(r.mods, m)
		}
	}
}

// MountAll mounts every registered module on e in registration order.
func (r *Registry) MountAll(e ez.EZ) {
	for _, m := range r.mods {
		m.Mount(e)
	}
}
