package lookup

import (
	"github.com/Amr-9/b58finder/pkg/format"
	"github.com/Amr-9/b58finder/pkg/keyinfo"
)

// Matcher returns a candidate filter that keeps private keys controlling an
// address in set. Other encoding types are kept when the candidate itself
// is in the set.
func Matcher(set *AddressSet, t format.EncodingType) func(string) bool {
	if !t.IsPrivateKey() {
		return set.Contains
	}
	return func(candidate string) bool {
		info, err := keyinfo.Inspect(candidate, t)
		if err != nil {
			return false
		}
		for _, a := range info.Addresses {
			if set.Contains(a.Value) {
				return true
			}
		}
		return false
	}
}
