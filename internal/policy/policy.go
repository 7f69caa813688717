// Package policy decides whether a member may book a class. It is pure:
// callers load the membership snapshot and class attributes, Evaluate only
// applies the plan rules.
package policy

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

type Tier string

const (
	TierBasic        Tier = "basic"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
	TierElite        Tier = "elite"
	TierJunior       Tier = "junior"
	TierSelfDefence  Tier = "self-defence"
	TierPrivate      Tier = "private"
	TierFitness      Tier = "fitness"
	TierUnknown      Tier = "unknown"
)

// SelfDefenceWindow is how long after joining a self-defence member can book.
const SelfDefenceWindow = 6 * 7 * 24 * time.Hour

// NormalizeTier maps a raw membership type name to a Tier by substring match.
// The order matters: "junior" before "elite" etc., and the tier keywords are
// checked before the loose "private"/"fitness" ones so composite plan names
// resolve to the most specific tier. Both "defence" and "defense" spellings
// are accepted for the self-defence plan.
func NormalizeTier(raw string) Tier {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.Contains(s, "junior"):
		return TierJunior
	case strings.Contains(s, "elite"):
		return TierElite
	case strings.Contains(s, "advanced"):
		return TierAdvanced
	case strings.Contains(s, "intermediate"):
		return TierIntermediate
	case strings.Contains(s, "basic"):
		return TierBasic
	case strings.Contains(s, "self-defence"), strings.Contains(s, "self-defense"):
		return TierSelfDefence
	case strings.Contains(s, "private"):
		return TierPrivate
	case strings.Contains(s, "fitness"):
		return TierFitness
	}

	return TierUnknown
}

// NormalizeArt strips everything but letters and lower-cases, so "Muay-Thai",
// "muay thai" and "MUAYTHAI" all compare equal.
func NormalizeArt(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// Member is the read-only membership snapshot the rules run on.
type Member struct {
	Tier         Tier
	PrimaryArt   string
	SecondaryArt string
	SessionsUsed int
	// SessionsPerWeek overrides the tier default when the membership row sets one.
	SessionsPerWeek *int
	JoinedAt        time.Time
}

// Class is the subset of class attributes the rules look at.
type Class struct {
	MartialArt string
	Kids       bool
}

type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Evaluate applies the plan rule table. It never errors: any input it does
// not recognize comes back as a denial with a user-facing reason.
func Evaluate(m Member, c Class, now time.Time) Decision {
	classArt := NormalizeArt(c.MartialArt)
	primary := NormalizeArt(m.PrimaryArt)
	secondary := NormalizeArt(m.SecondaryArt)

	switch m.Tier {
	case TierBasic, TierIntermediate:
		if c.Kids {
			return deny("This membership is for adult classes only.")
		}
		if primary == "" {
			return deny("Please select your preferred martial art in your profile.")
		}
		if classArt != primary {
			return deny(fmt.Sprintf("Your plan is restricted to %s classes only.", m.PrimaryArt))
		}
		return checkWeeklyCap(m)

	case TierAdvanced:
		if c.Kids {
			return deny("This membership is for adult classes only.")
		}
		if primary == "" && secondary == "" {
			return deny("Please select your preferred martial art in your profile.")
		}
		if classArt != primary && classArt != secondary {
			return deny("You can only book classes for your 2 chosen martial arts.")
		}
		return checkWeeklyCap(m)

	case TierElite:
		if c.Kids {
			return deny("Elite membership is for adult classes only.")
		}
		if strings.Contains(classArt, "private") {
			return deny("Elite membership does not include Private Tuition.")
		}
		return allow()

	case TierJunior:
		if !c.Kids {
			return deny("Junior membership is for kids classes only.")
		}
		return allow()

	case TierSelfDefence:
		if !strings.Contains(classArt, "defence") {
			return deny("This membership is for the Self-Defence course only.")
		}
		if m.SessionsUsed >= 2 {
			return deny("Course limit reached (2 sessions/week).")
		}
		if now.After(m.JoinedAt.Add(SelfDefenceWindow)) {
			return deny("Self-Defence course access has expired (6-week limit).")
		}
		return allow()

	case TierPrivate:
		if !strings.Contains(classArt, "private") {
			return deny("This account is for Private Tuition bookings only.")
		}
		return allow()

	case TierFitness:
		return deny("Fitness memberships cannot book martial arts classes.")
	}

	return deny("Membership type not recognized. Contact support.")
}

func checkWeeklyCap(m Member) Decision {
	limit := defaultWeeklyCap(m.Tier)
	if m.SessionsPerWeek != nil {
		limit = *m.SessionsPerWeek
	}
	if limit > 0 && m.SessionsUsed >= limit {
		return deny(fmt.Sprintf("Weekly limit reached (%d sessions).", limit))
	}
	return allow()
}

func defaultWeeklyCap(t Tier) int {
	switch t {
	case TierBasic:
		return 2
	case TierIntermediate:
		return 3
	case TierAdvanced:
		return 5
	}
	return 0
}
