package config

import "strings"

// RewriteForBroker reshapes p for the MB when its initial context factory is the
// MB alias (compared case-insensitively). Any other factory leaves p untouched.
//
// A provider URL is rebound to "connectionfactory.<connection-factory-name>", so
// the factory name is required in that case. Without a provider URL, a config
// file path becomes the provider URL. The requirement is checked before p is
// modified.
func RewriteForBroker(p Properties) error {
	if !strings.EqualFold(p[KeyInitialContextFactory], MBContextFactoryAlias) {
		return nil
	}

	factoryName, hasName := p[KeyConnectionFactoryName]
	providerURL, hasURL := p[KeyProviderURL]
	if hasURL && (!hasName || strings.TrimSpace(factoryName) == "") {
		return ErrMissingConnectionFactoryName
	}

	p[KeyInitialContextFactory] = MBContextFactory
	if hasURL {
		p[MBConnectionFactoryPrefix+factoryName] = providerURL
		delete(p, KeyProviderURL)
		return nil
	}
	p.Move(KeyConfigFilePath, KeyProviderURL)
	return nil
}
