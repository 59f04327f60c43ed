package generation

import "encoding/base64"

// EncodeArtifact turns binary output of one stage into the text-safe form
// carried across the stage boundary.
func EncodeArtifact(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeArtifact reverses EncodeArtifact.
func DecodeArtifact(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
