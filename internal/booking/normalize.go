package booking

// SeekingFlag coerces the presence-checked checkbox value into a boolean.
// The accepted-value contract is exact: "y" means true, anything else
// (empty string included) means false.
func SeekingFlag(value string) bool {
	return value == "y"
}

// WrapGenre wraps the single-valued genre select into the one-element
// collection the genres column stores. An empty submission yields an empty
// collection, not a one-element collection holding "".
func WrapGenre(value string) []string {
	if value == "" {
		return []string{}
	}
	return []string{value}
}
