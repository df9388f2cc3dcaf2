package newsreports

// SampleNewsByRegion returns the static demonstration articles used as the
// last rung of the fallback ladder, keyed by region. The map is built fresh
// on every call so callers can hold on to the slices without sharing state.
func SampleNewsByRegion() map[string][]Article {
	return map[string][]Article{
		"North America": {
			{
				Region:  "North America",
				Country: "North America",
				Flag:    "🇺🇸",
				Source:  "CNN",
				Title:   "Inflation continues to cool as economy shows resilience",
				Link:    "https://example.com/news1",
				Summary: "Newly released economic data show inflation falling for a third consecutive month, giving the central bank more room on rates. Analysts read the figures as a sign of a soft landing.",
			},
			{
				Region:  "North America",
				Country: "North America",
				Flag:    "🇺🇸",
				Source:  "NPR",
				Title:   "Tech giants announce new wave of AI investment",
				Link:    "https://example.com/news2",
				Summary: "Several major technology companies plan to spend tens of billions of dollars on artificial intelligence research over the next three years, with a focus on generative models.",
			},
			{
				Region:  "North America",
				Country: "North America",
				Flag:    "🇨🇦",
				Source:  "CBC News",
				Title:   "Shifting climate reshapes North American farming",
				Link:    "https://example.com/news3",
				Summary: "A new report finds extreme weather is forcing farmers across the continent to adopt new planting strategies and drought-resistant crops.",
			},
		},
		"Europe": {
			{
				Region:  "Europe",
				Country: "Europe",
				Flag:    "🇬🇧",
				Source:  "BBC",
				Title:   "EU passes sweeping digital services rules",
				Link:    "https://example.com/news4",
				Summary: "The European Parliament has approved new digital services legislation aimed at tightening oversight of large platforms and protecting user privacy.",
			},
			{
				Region:  "Europe",
				Country: "Europe",
				Flag:    "🇩🇪",
				Source:  "DW",
				Title:   "German carmakers accelerate shift to electric vehicles",
				Link:    "https://example.com/news5",
				Summary: "Germany's largest manufacturers say electric models will account for more than half of production by the middle of the decade as new battery plants come online.",
			},
			{
				Region:  "Europe",
				Country: "Europe",
				Flag:    "🇫🇷",
				Source:  "France 24",
				Title:   "France unveils education reform focused on digital skills",
				Link:    "https://example.com/news6",
				Summary: "The education ministry announced a reform plan emphasizing STEM subjects and digital literacy to prepare students for a changing labor market.",
			},
		},
		"Asia Pacific": {
			{
				Region:  "Asia Pacific",
				Country: "Asia Pacific",
				Flag:    "🇯🇵",
				Source:  "NHK World",
				Title:   "Japan tests next-generation high-speed rail",
				Link:    "https://example.com/news7",
				Summary: "Railway operators successfully trialed a bullet train running at 400 kilometers per hour, extending Japan's lead in high-speed rail technology.",
			},
			{
				Region:  "Asia Pacific",
				Country: "Asia Pacific",
				Flag:    "🇸🇬",
				Source:  "CNA",
				Title:   "Singapore cements role as regional fintech hub",
				Link:    "https://example.com/news8",
				Summary: "A new industry survey ranks Singapore as the leading financial technology center in the Asia Pacific, citing its regulatory framework and deep talent pool.",
			},
		},
		"Middle East": {
			{
				Region:  "Middle East",
				Country: "Middle East",
				Flag:    "🇶🇦",
				Source:  "Al Jazeera",
				Title:   "Gulf states post record renewable energy investment",
				Link:    "https://example.com/news9",
				Summary: "Governments across the Gulf sharply increased spending on solar projects this year, signaling a long-term commitment to energy diversification.",
			},
			{
				Region:  "Middle East",
				Country: "Middle East",
				Flag:    "🇦🇪",
				Source:  "Gulf News",
				Title:   "Region's airlines expand long-haul networks",
				Link:    "https://example.com/news10",
				Summary: "Carriers in the Emirates and Qatar announced dozens of new routes as passenger demand returns to pre-pandemic levels.",
			},
		},
		"Global": {
			{
				Region:  "Global",
				Country: "Global",
				Flag:    "🌍",
				Source:  "Reuters",
				Title:   "UN reports progress on global climate pledges",
				Link:    "https://example.com/news11",
				Summary: "The United Nations says national emissions targets have tightened over the past year, though current commitments still fall short of the Paris Agreement goals.",
			},
			{
				Region:  "Global",
				Country: "Global",
				Flag:    "🇺🇳",
				Source:  "UN News",
				Title:   "WHO updates global health guidance",
				Link:    "https://example.com/news12",
				Summary: "The World Health Organization published revised guidance emphasizing disease prevention and the resilience of national health systems.",
			},
		},
	}
}
