package media

import (
	"github.com/fhuszti/talkcart-medias-go/internal/normaliser"
)

func newNormaliser() *normaliser.Normaliser {
	return normaliser.New(normaliser.Config{
		BaseOrigin: "http://localhost:4000",
		PathPrefix: "/uploads",
		Namespace:  "talkcart",
	})
}
