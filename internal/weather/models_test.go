package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryKey(t *testing.T) {
	lat, lon := 51.50853, -0.12574
	assert.Equal(t, "51.5085,-0.1257", Query{Lat: &lat, Lon: &lon}.Key())
	assert.Equal(t, "London", Query{Location: "London"}.Key())
	assert.Equal(t, "London", Query{Location: "London", Lat: &lat}.Key())
}
