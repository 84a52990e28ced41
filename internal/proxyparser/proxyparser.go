package proxyparser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"sneakwatch/internal/model"
)

var (
	ErrInvalidDelimiter = errors.New("invalid delimiter")
	ErrInvalidAddress   = errors.New("invalid address")
	ErrInvalidHost      = errors.New("invalid host")
	ErrInvalidPort      = errors.New("invalid port")
	ErrInvalidProtocol  = errors.New("invalid protocol")
	ErrInvalidAuth      = errors.New("invalid auth")
)

var (
	delimiterRe = regexp.MustCompile(`[ ,\n]+`)
	addressRe   = regexp.MustCompile(`\w:\d`)
	bareHostRe  = regexp.MustCompile(`^\w+$`)
)

// Parse turns a user-supplied proxy list into Proxies. Entries are
// separated by spaces, commas or newlines; each entry is
// [protocol://][user:pass@]host:port with http as the default
// protocol.
func Parse(input string) ([]model.Proxy, error) {
	parts, err := splitInput(input)
	if err != nil {
		return nil, err
	}
	proxies := make([]model.Proxy, 0, len(parts))
	for _, part := range parts {
		p, err := parseProxy(part)
		if err != nil {
			return nil, err
		}
		proxies = append(proxies, p)
	}
	return proxies, nil
}

func splitInput(input string) ([]string, error) {
	if !delimiterRe.MatchString(input) && len(addressRe.Split(input, -1)) > 2 {
		return nil, ErrInvalidDelimiter
	}
	return delimiterRe.Split(strings.TrimSpace(input), -1), nil
}

func parseProxy(input string) (model.Proxy, error) {
	var p model.Proxy
	protocol, err := parseProtocol(input)
	if err != nil {
		return p, err
	}
	auth, err := parseAuth(input)
	if err != nil {
		return p, err
	}
	host, port, err := parseAddress(input)
	if err != nil {
		return p, err
	}
	return model.Proxy{
		Protocol: protocol,
		Host:     host,
		Port:     port,
		Auth:     auth,
	}, nil
}

func parseAddress(input string) (string, int, error) {
	if at := strings.LastIndex(input, "@"); at >= 0 {
		input = input[at+1:]
	} else if _, rest, found := strings.Cut(input, "://"); found {
		input = rest
	}
	host, portStr, found := strings.Cut(input, ":")
	if !found {
		return "", 0, ErrInvalidAddress
	}
	if bareHostRe.MatchString(host) {
		return "", 0, ErrInvalidHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, ErrInvalidPort
	}
	return host, port, nil
}

func parseProtocol(input string) (string, error) {
	protocol, _, found := strings.Cut(input, "://")
	if !found {
		return "http", nil
	}
	if len(protocol) < 3 || len(protocol) > 6 {
		return "", ErrInvalidProtocol
	}
	return protocol, nil
}

func parseAuth(input string) (*model.ProxyAuth, error) {
	if !strings.Contains(input, "@") {
		return nil, nil
	}
	if _, rest, found := strings.Cut(input, "://"); found {
		input = rest
	}
	input = input[:strings.LastIndex(input, "@")]
	username, password, found := strings.Cut(input, ":")
	if !found {
		return nil, ErrInvalidAuth
	}
	return &model.ProxyAuth{Username: username, Password: password}, nil
}

// Stringify is the inverse of Parse, one proxy per line. The default
// http protocol is omitted.
func Stringify(proxies []model.Proxy) string {
	lines := make([]string, 0, len(proxies))
	for _, p := range proxies {
		var sb strings.Builder
		if p.Protocol != "http" {
			sb.WriteString(p.Protocol + "://")
		}
		if p.Auth != nil {
			fmt.Fprintf(&sb, "%s:%s@", p.Auth.Username, p.Auth.Password)
		}
		fmt.Fprintf(&sb, "%s:%d", p.Host, p.Port)
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}
