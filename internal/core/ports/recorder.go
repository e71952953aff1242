package ports

// Recorder receives domain counters. Results are short snake_case labels such
// as "ok", "forbidden" or "error".
type Recorder interface {
	Registration(result string)
	Login(result string)
	ListingCreated(category string)
	ListingMutation(op, result string)
	ImageStored()
	ImageDeleted(result string)
}
