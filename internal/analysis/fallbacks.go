package analysis

import "strings"

// Documented fallback values substituted when a collector fails. Downstream
// code and the client always see these complete shapes, never nulls.

const metricUnavailable = "Not available"

func FallbackPerformance() PerformanceMetrics {
	return PerformanceMetrics{
		CoreVitals: CoreVitals{
			LCP: metricUnavailable,
			FID: metricUnavailable,
			CLS: metricUnavailable,
		},
	}
}

// FallbackSSL keeps the scheme-derived hasSSL bit so the report can still
// say whether the site serves over https at all.
func FallbackSSL(rawURL string, err error) SSLInfo {
	info := SSLInfo{
		HasSSL: strings.HasPrefix(rawURL, "https://"),
		Grade:  "Error",
	}
	if err != nil {
		info.Error = err.Error()
	}
	return info
}

func FallbackContent() PageContent {
	return PageContent{
		H1: []string{},
		H2: []string{},
	}
}

func FallbackSchema() SchemaMarkup {
	return SchemaMarkup{
		SchemaTypes:     []string{},
		Recommendations: []string{"Page could not be scanned for structured data"},
	}
}

func FallbackSocial() SocialTags {
	return SocialTags{
		Recommendations: []string{"Page could not be scanned for social tags"},
	}
}
