package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNameservers(t *testing.T) {
	fixture := `# Generated by NetworkManager
search lan
nameserver 192.168.0.1
nameserver 1.1.1.1
; trailing comment
nameserver	fd00::1
options edns0
`
	servers := parseNameservers(strings.NewReader(fixture))
	assert.Equal(t, []string{"192.168.0.1", "1.1.1.1", "fd00::1"}, servers)
}

func TestParseNameservers_Empty(t *testing.T) {
	assert.Nil(t, parseNameservers(strings.NewReader("")))
	assert.Nil(t, parseNameservers(strings.NewReader("# only comments\nsearch lan\n")))
}
