// 包 areacode：行政区划代码的基础运算（级别判定、上级代码推导、名称标志）
package areacode

import (
	"strconv"
	"strings"
)

// Code：六位行政区划代码，结构为 PP VV CC（省/地/县各两位）
type Code uint32

// Level：行政级别
type Level int

const (
	Province Level = iota
	Prefecture
	County
)

// 名称判定使用的标记与后缀
const (
	AutonomyMarker = "自治"
	CitySuffix     = "市"
	DistrictSuffix = "区"
)

// LevelOf：按末两位、中两位依次判零确定级别，最具体者优先
func LevelOf(c Code) Level {
	switch {
	case c%100 != 0:
		return County
	case c%10000 != 0:
		return Prefecture
	default:
		return Province
	}
}

// Desc：级别的中文描述，用于报表“级别”列
func (l Level) Desc() string {
	switch l {
	case Province:
		return "省级"
	case Prefecture:
		return "地级"
	case County:
		return "县级"
	}
	return ""
}

func (l Level) String() string {
	switch l {
	case Province:
		return "PROVINCE"
	case Prefecture:
		return "PREFECTURE"
	case County:
		return "COUNTY"
	}
	return "UNKNOWN"
}

// ProvinceOf：末四位清零得到省级代码
func ProvinceOf(c Code) Code { return c - c%10000 }

// PrefectureOf：末两位清零得到地级代码
func PrefectureOf(c Code) Code { return c - c%100 }

// Parent：直接上级代码；省级返回 0
func Parent(c Code) Code {
	switch LevelOf(c) {
	case County:
		return PrefectureOf(c)
	case Prefecture:
		return ProvinceOf(c)
	}
	return 0
}

// Parse：解析固定六位数字代码
// 约束：长度必须为 6 且全部为 ASCII 数字；不接受符号与空白
func Parse(s string) (Code, bool) {
	if len(s) != 6 {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return Code(n), true
}

func (c Code) String() string {
	s := strconv.FormatUint(uint64(c), 10)
	if len(s) < 6 {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	return s
}

// IsAutonomous：名称包含自治标记
func IsAutonomous(name string) bool { return strings.Contains(name, AutonomyMarker) }

// IsCountyCity：县级且以“市”结尾
func IsCountyCity(c Code, name string) bool {
	return LevelOf(c) == County && strings.HasSuffix(name, CitySuffix)
}

// IsDistrict：县级且以“区”结尾
func IsDistrict(c Code, name string) bool {
	return LevelOf(c) == County && strings.HasSuffix(name, DistrictSuffix)
}
