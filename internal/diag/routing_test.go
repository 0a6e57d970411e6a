package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 截取自真实 /proc/net/route 的片段
const routeFixture = `Iface	Destination	Gateway 	Flags	RefCnt	Use	Metric	Mask		MTU	Window	IRTT
eth0	00000000	0100A8C0	0003	0	0	100	00000000	0	0	0
eth0	0000A8C0	00000000	0001	0	0	100	00FFFFFF	0	0	0
docker0	000011AC	00000000	0001	0	0	0	0000FFFF	0	0	0
`

func TestParseRoutes(t *testing.T) {
	gateway, count, err := parseRoutes(strings.NewReader(routeFixture))
	require.NoError(t, err)
	assert.Equal(t, "192.168.0.1", gateway)
	assert.Equal(t, 3, count)
}

func TestParseRoutes_NoDefault(t *testing.T) {
	fixture := `Iface	Destination	Gateway 	Flags	RefCnt	Use	Metric	Mask		MTU	Window	IRTT
eth0	0000A8C0	00000000	0001	0	0	100	00FFFFFF	0	0	0
`
	gateway, count, err := parseRoutes(strings.NewReader(fixture))
	require.NoError(t, err)
	assert.Empty(t, gateway)
	assert.Equal(t, 1, count)
}

func TestParseRoutes_Empty(t *testing.T) {
	gateway, count, err := parseRoutes(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, gateway)
	assert.Zero(t, count)
}

func TestParseHexIPv4(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "home router", in: "0100A8C0", want: "192.168.0.1"},
		{name: "loopback", in: "0100007F", want: "127.0.0.1"},
		{name: "zero", in: "00000000", want: "0.0.0.0"},
		{name: "not hex", in: "zzzz", wantErr: true},
		{name: "wrong length", in: "0100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseHexIPv4(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
