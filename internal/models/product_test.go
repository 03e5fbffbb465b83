package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "abc-1", models.NormalizeCode(" abc-1 "))
	assert.Equal(t, "abc-1", models.NormalizeCode("AB C-1"))
	assert.Equal(t, "8991002101234", models.NormalizeCode("\t8991 0021 01234\n"))
	assert.Equal(t, "", models.NormalizeCode("   "))
}

func TestParseScanCodes(t *testing.T) {
	codes := models.ParseScanCodes("ABC-1, abc-1 ,X 2", "", "y3")

	assert.Equal(t, models.ScanCodes{"abc-1", "x2", "y3"}, codes)
}

func TestScanCodesUnmarshalJSON(t *testing.T) {
	t.Run("Single string", func(t *testing.T) {
		var p models.Product
		require.NoError(t, json.Unmarshal([]byte(`{"scan_codes":"ABC-1"}`), &p))
		assert.Equal(t, models.ScanCodes{"abc-1"}, p.ScanCodes)
	})

	t.Run("Comma-joined string", func(t *testing.T) {
		var p models.Product
		require.NoError(t, json.Unmarshal([]byte(`{"scan_codes":"111, 222,333"}`), &p))
		assert.Equal(t, models.ScanCodes{"111", "222", "333"}, p.ScanCodes)
	})

	t.Run("List with numbers and joined entries", func(t *testing.T) {
		var p models.Product
		require.NoError(t, json.Unmarshal([]byte(`{"scan_codes":["A1", 8991002101234, "b2,C3"]}`), &p))
		assert.Equal(t, models.ScanCodes{"a1", "8991002101234", "b2", "c3"}, p.ScanCodes)
	})

	t.Run("Null", func(t *testing.T) {
		var p models.Product
		require.NoError(t, json.Unmarshal([]byte(`{"scan_codes":null}`), &p))
		assert.Empty(t, p.ScanCodes)
	})

	t.Run("Unsupported value", func(t *testing.T) {
		var p models.Product
		err := json.Unmarshal([]byte(`{"scan_codes":{"a":1}}`), &p)
		require.Error(t, err)
		assert.ErrorContains(t, err, "unsupported scan code value")
	})
}

func TestScanCodesSQL(t *testing.T) {
	var codes models.ScanCodes

	require.NoError(t, codes.Scan([]byte("ABC-1,xyz")))
	assert.Equal(t, models.ScanCodes{"abc-1", "xyz"}, codes)

	value, err := codes.Value()
	require.NoError(t, err)
	assert.Equal(t, "abc-1,xyz", value)

	require.NoError(t, codes.Scan(nil))
	assert.Empty(t, codes)

	assert.Error(t, codes.Scan(42))
}
