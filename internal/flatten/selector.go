package flatten

// Select filters header down to the requested columns, in requested order.
// Requested names absent from header come back in missing. A name requested
// twice is kept once.
func Select(header, requested []string) (selected, missing []string) {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	used := make(map[string]bool, len(requested))
	for _, r := range requested {
		if used[r] {
			continue
		}
		used[r] = true
		if present[r] {
			selected = append(selected, r)
		} else {
			missing = append(missing, r)
		}
	}
	return selected, missing
}
