package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		want    string
		wantErr bool
	}{
		{name: "host only", host: "localhost", want: "localhost:27017"},
		{name: "host with port", host: "localhost:27018", want: "localhost:27018"},
		{name: "fqdn", host: "db.example.com", want: "db.example.com:27017"},
		{name: "surrounding whitespace", host: "  localhost  ", want: "localhost:27017"},
		{name: "empty", host: "", wantErr: true},
		{name: "whitespace only", host: "   ", wantErr: true},
		{name: "empty host before port", host: ":27017", wantErr: true},
		{name: "two colons", host: "host:port:extra", wantErr: true},
		{name: "non numeric port", host: "localhost:abc", wantErr: true},
		{name: "port zero", host: "localhost:0", wantErr: true},
		{name: "port too large", host: "localhost:70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAddress(tt.host)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
