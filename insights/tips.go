// File: /insights/tips.go
package insights

import "time"

var DefaultTips = []string{
	"Driving at a steady speed can save up to 15% fuel.",
	"A clean air filter can cut consumption by up to 10%.",
	"Every extra 100 kg in the trunk costs roughly 1-2% more fuel.",
	"Driving hard on a cold engine raises consumption by about 20%.",
	"Tires 1% under pressure raise fuel use by about 0.3%.",
	"Idling longer than 10 seconds burns more fuel than restarting the engine.",
}

// TipOfTheDay picks tips[dayOfYear % len(tips)]
func TipOfTheDay(tips []string, now time.Time) (string, bool) {
	if len(tips) == 0 {
		return "", false
	}
	return tips[now.YearDay()%len(tips)], true
}
