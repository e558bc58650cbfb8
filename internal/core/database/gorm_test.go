package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMySQLDSN(t *testing.T) {
	got := normalizeMySQLDSN("jdbc:mysql://root:pw@127.0.0.1:3306/shop?useUnicode=true", "", "")
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/shop?charset=utf8mb4&parseTime=true", got)

	got = normalizeMySQLDSN("mysql://127.0.0.1:3306/shop", "app", "secret")
	assert.Equal(t, "app:secret@tcp(127.0.0.1:3306)/shop?charset=utf8mb4&parseTime=true", got)

	native := "u:p@tcp(db:3306)/shop?parseTime=true"
	assert.Equal(t, native, normalizeMySQLDSN(native, "x", "y"))
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "u:****@tcp(db:3306)/shop", maskDSN("u:p@tcp(db:3306)/shop"))
	assert.Equal(t, "host=db", maskDSN("host=db"))
}

func TestModelsCoverAllTables(t *testing.T) {
	assert.Len(t, Models(), 7)
}
