package avatar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	r := NewResolver(map[string]string{
		"Harun":   "https://img.test/harun.svg",
		" anne ": "https://img.test/elif.svg",
	}, "")

	tests := []struct {
		name      string
		username  string
		storedURL string
		want      string
	}{
		{name: "empty username", username: "", storedURL: "https://img.test/x.svg", want: ""},
		{name: "override wins over stored", username: "harun", storedURL: "https://img.test/x.svg", want: "https://img.test/harun.svg"},
		{name: "override is case and space insensitive", username: "  ANNE", want: "https://img.test/elif.svg"},
		{name: "stored url", username: "uraz", storedURL: "https://img.test/u.svg", want: "https://img.test/u.svg"},
		{
			name:     "generated initials",
			username: "Ali Veli",
			want:     "https://api.dicebear.com/9.x/initials/svg?seed=Ali%20Veli&backgroundColor=facc15&chars=1&fontSize=45&fontWeight=700",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.username, tt.storedURL))
		})
	}
}

func TestInitialsEscapesSeed(t *testing.T) {
	r := NewResolver(nil, "#000000")
	got := r.Initials("a&b/ç")
	assert.Equal(t, "https://api.dicebear.com/9.x/initials/svg?seed=a%26b%2F%C3%A7&backgroundColor=000000&chars=1&fontSize=45&fontWeight=700", got)
}
