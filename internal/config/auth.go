package config

// Auth groups the identity provider settings.
type Auth struct {
	LocalDB LocalDBAuth
	OIDC    OIDCAuth
	LDAP    LDAPAuth
}

// LocalDBAuth enables username/password sign-in against the profiles table.
type LocalDBAuth struct {
	Enabled bool
}

// OIDCAuth holds OpenID Connect settings.
type OIDCAuth struct {
	Enabled      bool
	ProviderURL  string // discovery URL, e.g. https://accounts.google.com
	ClientID     string
	ClientSecret string
	RedirectURL  string // callback URL registered at the provider
	Scopes       []string
}

// LDAPAuth holds LDAP/Active Directory settings.
type LDAPAuth struct {
	Enabled       bool
	Host          string
	Port          int
	UseSSL        bool
	UseTLS        bool
	SkipVerify    bool
	BindDN        string
	BindPassword  string
	BaseDN        string
	UserFilter    string // e.g. (uid={username})
	UsernameAttr  string
	EmailAttr     string
	FirstNameAttr string
	LastNameAttr  string
	Timeout       int // seconds
}
