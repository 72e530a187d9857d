package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v uint64) *uint64 { return &v }

func TestCanDeletePrivate(t *testing.T) {
	cases := []struct {
		name        string
		senderID    uint64
		recipientID *uint64
		partnerID   uint64
		want        bool
	}{
		{"recipient may delete", 1, ptr(2), 2, true},
		{"sender may delete", 1, ptr(2), 1, true},
		{"third party forbidden", 1, ptr(2), 3, false},
		{"nil recipient, sender still allowed", 7, nil, 7, true},
		{"nil recipient, other partner forbidden", 7, nil, 8, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, canDeletePrivate(tc.senderID, tc.recipientID, tc.partnerID))
		})
	}
}
