package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conciliador/internal/domain"
)

func TestNormalize(t *testing.T) {
	table := domain.RawTable{
		{"101", "Caja"},
		{"104", "Bancos - Cuenta Corriente"},
		{"  121 ", "Cuentas por Cobrar Comerciales"},
		{"", "sin código"},
		{"701", ""},
		{},
		{"401", "Tributos por Pagar"},
	}

	c, err := Normalize(table)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Len())

	desc, ok := c.Description("121")
	assert.True(t, ok)
	assert.Equal(t, "Cuentas por Cobrar Comerciales", desc)

	_, ok = c.Description("999")
	assert.False(t, ok)
}

func TestNormalize_DuplicateCode(t *testing.T) {
	table := domain.RawTable{
		{"101", "Caja"},
		{"104", "Bancos"},
		{" 101", "Caja chica"},
	}

	_, err := Normalize(table)
	require.Error(t, err)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "101", conflict.Code)
	assert.Equal(t, 0, conflict.FirstRow)
	assert.Equal(t, 2, conflict.SecondRow)
}

func TestNormalize_ShortRowDropped(t *testing.T) {
	// A row whose description cell was blank arrives as a one-cell row
	// (spreadsheet readers trim trailing empty cells). It is dropped like
	// any other empty-description row; the rest of the table survives.
	table := domain.RawTable{
		{"101", "Caja"},
		{"701"},
		{"104", "Bancos"},
	}

	c, err := Normalize(table)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, ok := c.Description("701")
	assert.False(t, ok)
	desc, ok := c.Description("104")
	require.True(t, ok)
	assert.Equal(t, "Bancos", desc)
}

func TestNormalize_TableWithFewerThanTwoColumns(t *testing.T) {
	table := domain.RawTable{
		{"101"},
		{"104"},
	}

	_, err := Normalize(table)
	require.Error(t, err)

	var malformed *MalformedChartError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 1, malformed.Columns)
}

func TestFindByDescription(t *testing.T) {
	c, err := Normalize(domain.RawTable{
		{"101", "Caja"},
		{"104", "Bancos - Cuenta Corriente"},
		{"106", "Bancos - Ahorros"},
	})
	require.NoError(t, err)

	acct, ok := c.FindByDescription("caja")
	require.True(t, ok)
	assert.Equal(t, "101", acct.Code)

	// First source row wins when more than one description contains the term.
	acct, ok = c.FindByDescription("BANCO")
	require.True(t, ok)
	assert.Equal(t, "104", acct.Code)

	_, ok = c.FindByDescription("valores")
	assert.False(t, ok)

	_, ok = c.FindByDescription("   ")
	assert.False(t, ok)
}
