package useragent

import (
	"regexp"
	"strings"

	"zgo.at/gadget"
	"zgo.at/isbot"

	"telemetry-stats-service/internal/ingest/core/domain"
	"telemetry-stats-service/internal/ingest/core/ports"
)

const (
	TypeMobile = "mobile"
	TypeTablet = "tablet"
	TypeBot    = "bot"
)

// "Linux; Android 14; Pixel 8 Build/AP1A" -> "Pixel 8"
var androidModel = regexp.MustCompile(`;\s*([^;()]+?)\s+Build/`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

var _ ports.UserAgentParserPort = (*Parser)(nil)

// Parse derives OS and device details. Anything it cannot detect stays empty.
func (p *Parser) Parse(ua string) domain.UserAgentInfo {
	if ua == "" || ua == domain.Unknown {
		return domain.UserAgentInfo{}
	}

	parsed := gadget.Parse(ua)
	info := domain.UserAgentInfo{
		OSName:    parsed.OSName,
		OSVersion: parsed.OSVersion,
	}

	switch {
	case isbot.Is(isbot.UserAgent(ua)):
		info.DeviceType = TypeBot
	case strings.Contains(ua, "iPad"):
		info.DeviceType, info.DeviceModel, info.DeviceBrand = TypeTablet, "iPad", "Apple"
	case strings.Contains(ua, "iPhone"):
		info.DeviceType, info.DeviceModel, info.DeviceBrand = TypeMobile, "iPhone", "Apple"
	case strings.Contains(ua, "iPod"):
		info.DeviceType, info.DeviceModel, info.DeviceBrand = TypeMobile, "iPod", "Apple"
	case strings.Contains(ua, "Android"):
		info.DeviceType = TypeTablet
		if strings.Contains(ua, "Mobile") {
			info.DeviceType = TypeMobile
		}
		if m := androidModel.FindStringSubmatch(ua); m != nil {
			info.DeviceModel = strings.TrimSpace(m[1])
		}
	}
	return info
}
