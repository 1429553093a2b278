package fetch

import (
	"net/url"
	"strings"
)

// Site is a known job board.
type Site string

// Known job boards.
const (
	SiteLinkedIn   Site = "linkedin"
	SiteIndeed     Site = "indeed"
	SiteGlassdoor  Site = "glassdoor"
	SiteGreenhouse Site = "greenhouse"
	SiteLever      Site = "lever"
	SiteWorkday    Site = "workday"
	SiteWellfound  Site = "wellfound"
	SiteUnknown    Site = "unknown"
)

var siteHosts = []struct {
	site  Site
	hosts []string
}{
	{SiteLinkedIn, []string{"linkedin.com"}},
	{SiteIndeed, []string{"indeed.com"}},
	{SiteGlassdoor, []string{"glassdoor.com"}},
	{SiteGreenhouse, []string{"greenhouse.io"}},
	{SiteLever, []string{"lever.co"}},
	{SiteWorkday, []string{"workday.com", "myworkdayjobs.com"}},
	{SiteWellfound, []string{"wellfound.com", "angel.co"}},
}

// DetectSite identifies the job board an application link points at.
func DetectSite(link string) Site {
	parsed, err := url.Parse(link)
	if err != nil {
		return SiteUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, sh := range siteHosts {
		for _, h := range sh.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return sh.site
			}
		}
	}
	return SiteUnknown
}
