package steam

// Diff returns bundle2[k] - bundle1[k] for every key present in both bundles.
// Keys present in only one bundle are left out.
func Diff(bundle1, bundle2 PropertyBundle) DeltaBundle {
	delta := make(DeltaBundle)
	for k, v1 := range bundle1 {
		if v2, ok := bundle2[k]; ok {
			delta[k] = v2 - v1
		}
	}
	return delta
}
