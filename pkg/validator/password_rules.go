package validator

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	uppercaseRegex   = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex   = regexp.MustCompile(`[a-z]`)
	digitRegex       = regexp.MustCompile(`[0-9]`)
	specialCharRegex = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)

	// Common weak passwords - curated list of frequently compromised passwords
	commonPasswords = map[string]bool{
		"password":      true,
		"123456":        true,
		"password123":   true,
		"admin":         true,
		"qwerty":        true,
		"abc123":        true,
		"letmein":       true,
		"welcome":       true,
		"monkey":        true,
		"1234567890":    true,
		"dragon":        true,
		"sunshine":      true,
		"iloveyou":      true,
		"princess":      true,
		"football":      true,
		"charlie":       true,
		"aa123456":      true,
		"donald":        true,
		"password1":     true,
		"qwerty123":     true,
		"12345678":      true,
		"123456789":     true,
		"1234":          true,
		"12345":         true,
		"123123":        true,
		"111111":        true,
		"000000":        true,
		"qwertyuiop":    true,
		"asdfghjkl":     true,
		"zxcvbnm":       true,
		"qwerty12":      true,
		"qwerty1":       true,
		"password12":    true,
		"password!":     true,
		"Password":      true,
		"Password1":     true,
		"Password123":   true,
		"admin123":      true,
		"administrator": true,
		"root":          true,
		"toor":          true,
		"guest":         true,
		"test":          true,
		"testing":       true,
		"user":          true,
		"login":         true,
		"pass":          true,
		"master":        true,
		"secret":        true,
		"trustno1":      true,
		"baseball":      true,
		"basketball":    true,
		"soccer":        true,
		"hockey":        true,
		"tennis":        true,
		"golf":          true,
		"michael":       true,
		"jennifer":      true,
		"jessica":       true,
		"ashley":        true,
		"sarah":         true,
		"amanda":        true,
		"joshua":        true,
		"matthew":       true,
		"daniel":        true,
		"david":         true,
		"christopher":   true,
		"andrew":        true,
		"superman":      true,
		"batman":        true,
		"spiderman":     true,
		"pokemon":       true,
		"nintendo":      true,
		"windows":       true,
		"computer":      true,
		"internet":      true,
		"google":        true,
		"facebook":      true,
		"twitter":       true,
		"instagram":     true,
		"linkedin":      true,
		"amazon":        true,
		"apple":         true,
		"microsoft":     true,
		"samsung":       true,
		"iphone":        true,
		"android":       true,
		"freedom":       true,
		"america":       true,
		"eagle":         true,
		"flower":        true,
		"spring":        true,
		"summer":        true,
		"winter":        true,
		"autumn":        true,
		"shadow":        true,
		"midnight":      true,
		"silver":        true,
		"golden":        true,
		"diamond":       true,
		"rainbow":       true,
		"chocolate":     true,
		"vanilla":       true,
		"banana":        true,
		"orange":        true,
		"purple":        true,
		"yellow":        true,
		"jordan":        true,
		"hunter":        true,
		"jackson":       true,
		"madison":       true,
		"taylor":        true,
		"hannah":        true,
		"samantha":      true,
		"tyler":         true,
		"nicole":        true,
		"brittany":      true,
		"12341234":      true,
		"1q2w3e4r":      true,
		"1qaz2wsx":      true,
		"zaq12wsx":      true,
		"qazwsx":        true,
		"qazxsw":        true,
		"654321":        true,
		"987654321":     true,
		"abcdef":        true,
		"abcd1234":      true,
		"a1b2c3":        true,
		"123qwe":        true,
		"qwe123":        true,
		"asd123":        true,
		"123asd":        true,
		"zxc123":        true,
		"123zxc":        true,
	}
)

// PasswordStrengthConfig is the password policy applied by the strongPassword rule.
type PasswordStrengthConfig struct {
	MinLength        int
	MaxLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigits    bool
	RequireSpecial   bool
	MinCharClasses   int // Minimum number of different character classes required
	MaxRepeats       int // 0 disables the repeated-character check
	RejectCommon     bool
}

// DefaultPasswordStrength returns NIST-recommended password policy: 8-128 chars, 3+ character classes.
func DefaultPasswordStrength() PasswordStrengthConfig {
	return PasswordStrengthConfig{
		MinLength:        8,
		MaxLength:        128,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigits:    true,
		RequireSpecial:   true,
		MinCharClasses:   3,
		MaxRepeats:       3,
		RejectCommon:     true,
	}
}

// PasswordStrengthFromParams overlays rule params on the default policy.
// Recognized keys: minLength, maxLength, minCharClasses, maxRepeats,
// requireUpper, requireLower, requireDigit, requireSpecial, rejectCommon.
func PasswordStrengthFromParams(params Params) PasswordStrengthConfig {
	cfg := DefaultPasswordStrength()
	if n, ok := params.Int("minLength"); ok {
		cfg.MinLength = n
	}
	if n, ok := params.Int("maxLength"); ok {
		cfg.MaxLength = n
	}
	if n, ok := params.Int("minCharClasses"); ok {
		cfg.MinCharClasses = n
	}
	if n, ok := params.Int("maxRepeats"); ok {
		cfg.MaxRepeats = n
	}
	cfg.RequireUppercase = params.Bool("requireUpper", cfg.RequireUppercase)
	cfg.RequireLowercase = params.Bool("requireLower", cfg.RequireLowercase)
	cfg.RequireDigits = params.Bool("requireDigit", cfg.RequireDigits)
	cfg.RequireSpecial = params.Bool("requireSpecial", cfg.RequireSpecial)
	cfg.RejectCommon = params.Bool("rejectCommon", cfg.RejectCommon)
	return cfg
}

// PasswordProblems lists every requirement of config the password misses.
// An empty result means the password satisfies the policy.
func PasswordProblems(password string, config PasswordStrengthConfig) []string {
	var problems []string

	n := len([]rune(password))
	if n < config.MinLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters long", config.MinLength))
	}
	if config.MaxLength > 0 && n > config.MaxLength {
		problems = append(problems, fmt.Sprintf("must be at most %d characters long", config.MaxLength))
	}

	hasUpper := uppercaseRegex.MatchString(password)
	hasLower := lowercaseRegex.MatchString(password)
	hasDigit := digitRegex.MatchString(password)
	hasSpecial := specialCharRegex.MatchString(password)

	if config.RequireUppercase && !hasUpper {
		problems = append(problems, "must contain at least one uppercase letter")
	}
	if config.RequireLowercase && !hasLower {
		problems = append(problems, "must contain at least one lowercase letter")
	}
	if config.RequireDigits && !hasDigit {
		problems = append(problems, "must contain at least one digit")
	}
	if config.RequireSpecial && !hasSpecial {
		problems = append(problems, "must contain at least one special character")
	}

	classes := 0
	for _, has := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if has {
			classes++
		}
	}
	if classes < config.MinCharClasses {
		problems = append(problems, fmt.Sprintf("must use at least %d character classes", config.MinCharClasses))
	}

	if config.MaxRepeats > 0 && longestRun(password) > config.MaxRepeats {
		problems = append(problems, fmt.Sprintf("cannot repeat a character more than %d times in a row", config.MaxRepeats))
	}
	if config.RejectCommon && commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "is too common, please choose a different one")
	}

	return problems
}

// StrongPassword applies PasswordStrengthFromParams(params) to a string value.
func StrongPassword(value any, params Params) bool {
	s, ok := toString(value)
	if !ok {
		return false
	}
	return len(PasswordProblems(s, PasswordStrengthFromParams(params))) == 0
}

func longestRun(s string) int {
	var (
		prev    rune
		count   int
		longest int
	)
	for i, r := range s {
		if i > 0 && r == prev {
			count++
		} else {
			count = 1
		}
		prev = r
		longest = max(longest, count)
	}
	return longest
}
