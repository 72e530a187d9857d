package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidLeadStatus(t *testing.T) {
	for _, s := range LeadStatuses {
		assert.True(t, ValidLeadStatus(s), s)
	}
	assert.False(t, ValidLeadStatus(""))
	assert.False(t, ValidLeadStatus("cancelled"))
	assert.False(t, ValidLeadStatus("Installed"))
}

func TestValidPartnerType(t *testing.T) {
	assert.True(t, ValidPartnerType(PartnerTypeBusiness))
	assert.True(t, ValidPartnerType(PartnerTypeIndividual))
	assert.False(t, ValidPartnerType(""))
	assert.False(t, ValidPartnerType("company"))
}
