package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultRegions returns the built-in feed catalog, grouped by region in
// presentation order. The catalog is plain YAML so a deployment can copy it
// into a config file and edit it without touching code.
func DefaultRegions() ([]Region, error) {
	var regions []Region
	if err := yaml.Unmarshal([]byte(defaultCatalog), &regions); err != nil {
		return nil, fmt.Errorf("failed to parse built-in feed catalog: %w", err)
	}
	return regions, nil
}

const defaultCatalog = `
- name: North America
  sources:
    - {name: CNN, url: "https://rss.cnn.com/rss/edition.rss", flag: "🇺🇸"}
    - {name: NPR, url: "https://feeds.npr.org/1001/rss.xml", flag: "🇺🇸"}
    - {name: New York Times, url: "https://rss.nytimes.com/services/xml/rss/nyt/World.xml", flag: "🇺🇸"}
    - {name: Washington Post, url: "https://feeds.washingtonpost.com/rss/world", flag: "🇺🇸"}
    - {name: CBC News, url: "https://www.cbc.ca/cmlink/rss-topstories", flag: "🇨🇦"}
    - {name: Global News, url: "https://globalnews.ca/feed/", flag: "🇨🇦"}
- name: Europe
  sources:
    - {name: BBC, url: "https://feeds.bbci.co.uk/news/rss.xml", flag: "🇬🇧"}
    - {name: The Guardian, url: "https://www.theguardian.com/world/rss", flag: "🇬🇧"}
    - {name: DW, url: "https://rss.dw.com/rdf/rss-en-all", flag: "🇩🇪"}
    - {name: Spiegel, url: "https://www.spiegel.de/international/index.rss", flag: "🇩🇪"}
    - {name: France 24, url: "https://www.france24.com/en/rss", flag: "🇫🇷"}
    - {name: Le Monde, url: "https://www.lemonde.fr/en/rss/une.xml", flag: "🇫🇷"}
    - {name: ANSA, url: "https://www.ansa.it/english/news/rss.xml", flag: "🇮🇹"}
    - {name: El País, url: "https://feeds.elpais.com/mrss-s/pages/ep/site/english.elpais.com/portada", flag: "🇪🇸"}
- name: Asia Pacific
  sources:
    - {name: NHK World, url: "https://www3.nhk.or.jp/rss/news/cat0.xml", flag: "🇯🇵"}
    - {name: Japan Times, url: "https://www.japantimes.co.jp/rss/news.xml", flag: "🇯🇵"}
    - {name: Yonhap, url: "https://en.yna.co.kr/RSS/news.xml", flag: "🇰🇷"}
    - {name: China Daily, url: "https://www.chinadaily.com.cn/rss/world_rss.xml", flag: "🇨🇳"}
    - {name: Times of India, url: "https://timesofindia.indiatimes.com/rssfeedstopstories.cms", flag: "🇮🇳"}
    - {name: CNA, url: "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml", flag: "🇸🇬"}
    - {name: ABC News, url: "https://www.abc.net.au/news/feed/45910/rss.xml", flag: "🇦🇺"}
- name: Middle East
  sources:
    - {name: Al Jazeera, url: "https://www.aljazeera.com/xml/rss/all.xml", flag: "🇶🇦"}
    - {name: Gulf News, url: "https://gulfnews.com/rss", flag: "🇦🇪"}
    - {name: Times of Israel, url: "https://www.timesofisrael.com/feed/", flag: "🇮🇱"}
    - {name: Daily Sabah, url: "https://www.dailysabah.com/rss", flag: "🇹🇷"}
- name: Global
  sources:
    - {name: Reuters, url: "https://feeds.reuters.com/Reuters/worldNews", flag: "🌍"}
    - {name: UN News, url: "https://news.un.org/feed/subscribe/en/news/all/rss.xml", flag: "🇺🇳"}
    - {name: WHO, url: "https://www.who.int/rss-feeds/news-english.xml", flag: "🏥"}
`
