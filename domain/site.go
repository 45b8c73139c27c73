package domain

// Provider identifies an external API a credential pool belongs to.
type Provider string

const (
	ProviderTranslation Provider = "translation"
	ProviderGeneration  Provider = "generation"
)

// ParseProvider validates a provider name from a request body.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderTranslation, ProviderGeneration:
		return Provider(s), true
	default:
		return "", false
	}
}

// SiteConfig is the shared pipeline configuration stored alongside the
// articles. Every pipeline invocation loads a fresh snapshot; credential and
// feed changes take effect on the next run without a restart.
type SiteConfig struct {
	ID              string   `db:"id"`
	FeedSources     []string `db:"feed_sources"`
	TranslationKeys []string `db:"translation_keys"`
	GenerationKeys  []string `db:"generation_keys"`
}

// CredentialsFor returns the ordered credential pool for a provider. Order
// defines fallback priority.
func (s *SiteConfig) CredentialsFor(p Provider) []string {
	switch p {
	case ProviderTranslation:
		return s.TranslationKeys
	case ProviderGeneration:
		return s.GenerationKeys
	default:
		return nil
	}
}
