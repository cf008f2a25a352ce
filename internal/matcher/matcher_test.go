package matcher_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kovalyov-valentin/competition-feed-bot/internal/matcher"
)

func TestMatchFirstPatternWins(t *testing.T) {
	family := matcher.NewFamily("test", "not found",
		regexp.MustCompile(`first[：:](\w+)`),
		regexp.MustCompile(`second[：:](\w+)`),
	)

	// Both patterns match; only the first one's result may be used.
	got := family.Match("second:beta first:alpha")
	require.Equal(t, "alpha", got)
}

func TestMatchReturnsSentinelNotAbsence(t *testing.T) {
	family := matcher.NewFamily("test", "未找到",
		regexp.MustCompile(`nothing[：:](\w+)`),
	)

	got := family.Match("completely unrelated text")
	require.Equal(t, "未找到", got)
	require.NotEmpty(t, got)
}

func TestMatchTwoGroupsYieldsComposite(t *testing.T) {
	families := matcher.DefaultFamilies()

	got := families.RegistrationWindow.Match("作品提交：2024年3月1日到2024年5月31日")
	require.Equal(t, "2024年3月1日至2024年5月31日", got)
}

func TestMatchDottedDateRange(t *testing.T) {
	families := matcher.DefaultFamilies()

	got := families.RegistrationWindow.Match("征稿时间 2024.3.1至2024.5.31 截止")
	require.Equal(t, "2024.3.1至2024.5.31", got)
}

func TestMatchLabeledRegistrationWindowBeatsDateRange(t *testing.T) {
	families := matcher.DefaultFamilies()

	// The labeled pattern comes first in the family, so the date-range
	// pattern later in the list is never consulted.
	got := families.RegistrationWindow.Match("报名日期：2024年3月1日至2024年5月31日")
	require.Equal(t, "2024年3月1日至2024年5月31日", got)
}

func TestMatchOrganizer(t *testing.T) {
	families := matcher.DefaultFamilies()

	got := families.Organizer.Match("介绍文字\n主办：中国广告协会\n承办：某大学")
	require.Equal(t, "中国广告协会", got)
}

func TestMatchCoOrganizer(t *testing.T) {
	families := matcher.DefaultFamilies()

	got := families.CoOrganizer.Match("承办单位：北京某传媒学院")
	require.Equal(t, "北京某传媒学院", got)
}

func TestMatchEligibility(t *testing.T) {
	families := matcher.DefaultFamilies()

	got := families.Eligibility.Match("参赛对象：全国高校在校学生。其他说明")
	require.Equal(t, "全国高校在校学生", got)
}

func TestDefaultFamilySentinels(t *testing.T) {
	families := matcher.DefaultFamilies()

	require.Equal(t, "未找到报名日期", families.RegistrationWindow.Match(""))
	require.Equal(t, "未找到参赛要求", families.Eligibility.Match(""))
	require.Equal(t, "未找到主办方", families.Organizer.Match(""))
	require.Equal(t, "未找到承办方", families.CoOrganizer.Match(""))
}
