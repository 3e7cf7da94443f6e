package metadata

import (
	"sort"

	"github.com/toshio/canistorage/pkg/identity"
)

// AddGrant inserts principal into the capability's ACL if absent, keeping
// the slice sorted, mirroring the original's binary-search-then-push-sort.
func (r *Record) AddGrant(cap Capability, principal identity.Principal) {
	grants := r.Grants(cap)
	i := sort.Search(len(grants), func(i int) bool { return grants[i] >= principal })
	if i < len(grants) && grants[i] == principal {
		return
	}
	grants = append(grants, "")
	copy(grants[i+1:], grants[i:])
	grants[i] = principal
	r.SetGrants(cap, grants)
}

// RemoveGrant removes principal from the capability's ACL if present.
func (r *Record) RemoveGrant(cap Capability, principal identity.Principal) {
	grants := r.Grants(cap)
	i := sort.Search(len(grants), func(i int) bool { return grants[i] >= principal })
	if i >= len(grants) || grants[i] != principal {
		return
	}
	r.SetGrants(cap, append(grants[:i], grants[i+1:]...))
}
