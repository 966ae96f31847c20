// Package validation holds the pure field validators for configuration
// payloads and account fields. Each validator returns (valid, message);
// empty input is valid unless the field is documented as required.
package validation

import (
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
)

var (
	interfaceNameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	vdomNameRe      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	phase1NameRe    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	usernameRe      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRe         = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateIPAddress accepts IPv4 or IPv6 literals. No CIDR suffix, no port.
func ValidateIPAddress(ip string) (bool, string) {
	if ip == "" {
		return true, ""
	}

	if net.ParseIP(ip) == nil {
		return false, fmt.Sprintf("Invalid IP address: %s", ip)
	}
	return true, ""
}

// ValidateSubnet accepts IPv4 or IPv6 networks in CIDR notation. Host bits
// set in the address part are tolerated (non-strict parsing).
func ValidateSubnet(subnet string) (bool, string) {
	if subnet == "" {
		return true, ""
	}

	if !strings.Contains(subnet, "/") {
		return false, fmt.Sprintf("Invalid subnet (missing CIDR notation): %s", subnet)
	}

	if _, _, err := net.ParseCIDR(subnet); err != nil {
		return false, fmt.Sprintf("Invalid subnet: %s", subnet)
	}
	return true, ""
}

// ValidatePort accepts numeric strings in 1..65535.
func ValidatePort(port string) (bool, string) {
	if port == "" {
		return true, ""
	}

	n, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil {
		return false, fmt.Sprintf("Invalid port number: %s", port)
	}
	if n < 1 || n > 65535 {
		return false, fmt.Sprintf("Port must be between 1 and 65535: %s", port)
	}
	return true, ""
}

// ValidatePortRange accepts a single port ("8080") or a range ("80-443")
// where start <= end.
func ValidatePortRange(portRange string) (bool, string) {
	if portRange == "" {
		return true, ""
	}

	if !strings.Contains(portRange, "-") {
		return ValidatePort(portRange)
	}

	parts := strings.Split(portRange, "-")
	if len(parts) != 2 {
		return false, fmt.Sprintf("Invalid port range format: %s", portRange)
	}

	if ok, msg := ValidatePort(parts[0]); !ok {
		return false, msg
	}
	if ok, msg := ValidatePort(parts[1]); !ok {
		return false, msg
	}

	start, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, _ := strconv.Atoi(strings.TrimSpace(parts[1]))
	if start > end {
		return false, fmt.Sprintf("Port range start must be less than or equal to end: %s", portRange)
	}
	return true, ""
}

// ValidateInterfaceName accepts names like wan1, port1, dmz, ssl.root.
func ValidateInterfaceName(name string) (bool, string) {
	if name == "" {
		return true, ""
	}

	if !interfaceNameRe.MatchString(name) {
		return false, fmt.Sprintf("Invalid interface name: %s", name)
	}
	if len(name) > 35 {
		return false, fmt.Sprintf("Interface name too long (max 35 characters): %s", name)
	}
	return true, ""
}

// ValidateVDOMName accepts virtual-domain names.
func ValidateVDOMName(name string) (bool, string) {
	if name == "" {
		return true, ""
	}

	if !vdomNameRe.MatchString(name) {
		return false, fmt.Sprintf("Invalid VDOM name: %s", name)
	}
	if len(name) > 31 {
		return false, fmt.Sprintf("VDOM name too long (max 31 characters): %s", name)
	}
	return true, ""
}

// ValidatePhase1Name accepts IPsec phase1 interface names. Unlike the other
// name rules this field is required.
func ValidatePhase1Name(name string) (bool, string) {
	if name == "" {
		return false, "Phase1 name is required"
	}

	if !phase1NameRe.MatchString(name) {
		return false, fmt.Sprintf("Invalid Phase1 name (alphanumeric, hyphens, underscores only): %s", name)
	}
	if len(name) > 35 {
		return false, fmt.Sprintf("Phase1 name too long (max 35 characters): %s", name)
	}
	return true, ""
}

// ValidatePolicyName accepts firewall policy names; empty is fine since a
// policy can be referenced by ID.
func ValidatePolicyName(name string) (bool, string) {
	if name == "" {
		return true, ""
	}

	if len(name) > 255 {
		return false, fmt.Sprintf("Policy name too long (max 255 characters): %s", name)
	}
	return true, ""
}

// ConfigTypes is the fixed set of accepted configuration types.
var ConfigTypes = []string{
	"ipsec", "sdwan", "firewall", "interface", "ha", "saml",
	"routing", "dns", "dhcp", "vpn", "other",
}

// ValidateConfigType checks membership in the fixed type set, case-sensitive.
func ValidateConfigType(configType string) (bool, string) {
	for _, t := range ConfigTypes {
		if configType == t {
			return true, ""
		}
	}
	return false, fmt.Sprintf("Invalid configuration type. Must be one of: %s", strings.Join(ConfigTypes, ", "))
}

// NormalizeTags converts a decoded JSON value into a tag list. Accepted
// inputs are a list of strings or a comma-separated string; anything else
// reports false.
func NormalizeTags(value any) ([]string, bool) {
	switch v := value.(type) {
	case nil:
		return []string{}, true
	case string:
		if v == "" {
			return []string{}, true
		}
		parts := strings.Split(v, ",")
		tags := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				tags = append(tags, p)
			}
		}
		return tags, true
	case []string:
		tags := make([]string, 0, len(v))
		for _, p := range v {
			if p = strings.TrimSpace(p); p != "" {
				tags = append(tags, p)
			}
		}
		return tags, true
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			if s = strings.TrimSpace(s); s != "" {
				tags = append(tags, s)
			}
		}
		return tags, true
	default:
		return nil, false
	}
}

// ValidateTags checks a decoded tags value: list or comma-separated string,
// each tag at most 50 characters.
func ValidateTags(value any) (bool, string) {
	tags, ok := NormalizeTags(value)
	if !ok {
		return false, "Tags must be a list or comma-separated string"
	}

	for _, tag := range tags {
		if len(tag) > 50 {
			return false, fmt.Sprintf("Tag too long (max 50 characters): %s", tag)
		}
	}
	return true, ""
}

// ValidateUsername checks account usernames: 3-80 characters, alphanumeric
// plus hyphens and underscores.
func ValidateUsername(username string) (bool, string) {
	if len(username) < 3 {
		return false, "Username must be at least 3 characters long"
	}
	if len(username) > 80 {
		return false, "Username must be less than 80 characters"
	}
	if !usernameRe.MatchString(username) {
		return false, "Username can only contain letters, numbers, hyphens, and underscores"
	}
	return true, ""
}

// ValidateEmail checks the local@domain.tld shape.
func ValidateEmail(email string) (bool, string) {
	if !emailRe.MatchString(email) {
		return false, "Invalid email format"
	}
	return true, ""
}

// ValidatePassword checks password strength: at least 8 characters with a
// digit, an uppercase and a lowercase letter.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters long"
	}

	var hasDigit, hasUpper, hasLower bool
	for _, c := range password {
		switch {
		case c >= '0' && c <= '9':
			hasDigit = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		}
	}

	if !hasDigit {
		return false, "Password must contain at least one number"
	}
	if !hasUpper {
		return false, "Password must contain at least one uppercase letter"
	}
	if !hasLower {
		return false, "Password must contain at least one lowercase letter"
	}
	return true, ""
}
