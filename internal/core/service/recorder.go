package service

type nopRecorder struct{}

func (nopRecorder) Registration(string)            {}
func (nopRecorder) Login(string)                   {}
func (nopRecorder) ListingCreated(string)          {}
func (nopRecorder) ListingMutation(string, string) {}
func (nopRecorder) ImageStored()                   {}
func (nopRecorder) ImageDeleted(string)            {}
