package log

const (
	KeyError          = "error"
	KeyHost           = "host"
	KeyPort           = "port"
	KeyLocal          = "local"
	KeyRemote         = "remote"
	KeyCommand        = "command"
	KeyMethod         = "method"
	KeyState          = "state"
	KeyVersion        = "version"
	KeyTLSProtocol    = "tls_protocol"
	KeyTLSCipherSuite = "tls_cipher_suite"
	KeyTLSServerCName = "tls_server_cname"
	KeyTLSServerDN    = "tls_server_dn"
	KeyTLSIssuerDN    = "tls_issuer_dn"
	KeyTLSNotBefore   = "tls_not_before"
	KeyTLSNotAfter    = "tls_not_after"
	KeyTLSSerial      = "tls_serial"
	KeyTLSDNSNames    = "tls_dns_names"
	KeyTLSFingerprint = "tls_fingerprint"
	KeyTLSVerified    = "tls_verified"
)
