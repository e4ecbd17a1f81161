package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkType_SequenceType(t *testing.T) {
	tests := []struct {
		link LinkType
		want SequenceType
	}{
		{LinkFinishFinish, SequenceFinishFinish},
		{LinkFinishStart, SequenceFinishStart},
		{LinkStartFinish, SequenceStartFinish},
		{LinkStartStart, SequenceStartStart},
		{"", SequenceFinishStart},
		{"Start to Start", SequenceStartStart},
		{"Finish to Finish", SequenceFinishFinish},
		{"finish to start", SequenceFinishStart},
		{"Start to Finish", SequenceStartFinish},
	}

	for _, tt := range tests {
		t.Run(string(tt.link), func(t *testing.T) {
			got, err := tt.link.SequenceType()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestLinkType_SequenceType_Invalid(t *testing.T) {
	_, err := LinkType("7").SequenceType()
	assert.ErrorIs(t, err, ErrInvalidLinkType)
}

func TestSequenceType_IsValid(t *testing.T) {
	assert.True(t, DefaultSequenceType.IsValid())
	assert.False(t, SequenceType("USERDEFINED").IsValid())
	assert.False(t, SequenceType("").IsValid())
}
