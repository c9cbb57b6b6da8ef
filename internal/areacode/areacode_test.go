package areacode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code Code
		want Level
	}{
		{110000, Province},
		{110100, Prefecture},
		{110101, County},
		{650000, Province},
		{659001, County},
		{469000, Prefecture},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelOf(tt.code), tt.code.String())
	}
}

func TestParentCodes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Code(110000), ProvinceOf(110101))
	assert.Equal(t, Code(110100), PrefectureOf(110101))
	assert.Equal(t, Code(110100), Parent(110101))
	assert.Equal(t, Code(110000), Parent(110100))
	assert.Equal(t, Code(0), Parent(110000))
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		c, ok := Parse("110101")
		assert.True(t, ok)
		assert.Equal(t, Code(110101), c)
	})

	t.Run("rejects_malformed", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"", "11010", "1101011", "11010a", "+11010", " 11010"} {
			_, ok := Parse(s)
			assert.False(t, ok, s)
		}
	})
}

func TestCodeString_padsToSixDigits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "010101", Code(10101).String())
	assert.Equal(t, "110101", Code(110101).String())
}

func TestNameFlags(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAutonomous("延边朝鲜族自治州"))
	assert.False(t, IsAutonomous("东城区"))

	assert.True(t, IsDistrict(110101, "东城区"))
	assert.False(t, IsDistrict(110100, "市辖区"))
	assert.True(t, IsCountyCity(130181, "辛集市"))
	assert.False(t, IsCountyCity(130100, "石家庄市"))
}

func TestLevelDesc(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "省级", Province.Desc())
	assert.Equal(t, "地级", Prefecture.Desc())
	assert.Equal(t, "县级", County.Desc())
}
