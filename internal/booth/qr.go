package booth

// QRGenerator renders the gallery link for a session as an image file.
type QRGenerator interface {
	// Generate writes the QR image into dir and returns its path.
	Generate(shortCode, dir string) (string, error)
}
