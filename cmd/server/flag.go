package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

const (
	environmentVariablePort           = "PORT"
	environmentVariableDatabaseDriver = "DATABASE_DRIVER"
	environmentVariableDatabaseURL    = "DATABASE_URL"
	environmentVariableQueryPeriodSec = "QUERY_PERIOD_SEC"
	environmentVariableAccountsFile   = "ACCOUNTS_FILE"
	environmentVariableTLSCertFile    = "TLS_CERT_FILE"
	environmentVariableTLSKeyFile     = "TLS_KEY_FILE"
	environmentVariableTokenValidSec  = "TOKEN_VALID_SEC"
)

// mainFlags are the configuration options which can be easily configured at run startup for different environments.
type mainFlags struct {
	port           int
	databaseDriver string
	databaseURL    string
	queryPeriodSec int
	accountsFile   string
	tlsCertFile    string
	tlsKeyFile     string
	tokenValidSec  int
}

const (
	defaultPort           = 8000
	defaultDatabaseDriver = memoryDriver
	defaultQueryPeriodSec = 5
	defaultTokenValidSec  = 60 * 60 * 24 // 1 day
)

// usage prints how to run the server to the flagset's output.
func usage(fs *flag.FlagSet) {
	envVars := []string{
		environmentVariablePort,
		environmentVariableDatabaseDriver,
		environmentVariableDatabaseURL,
		environmentVariableQueryPeriodSec,
		environmentVariableAccountsFile,
		environmentVariableTLSCertFile,
		environmentVariableTLSKeyFile,
		environmentVariableTokenValidSec,
	}
	fmt.Fprintf(fs.Output(), "Runs the server\n")
	fmt.Fprintf(fs.Output(), "Reads environment variables when possible: [%s]\n", strings.Join(envVars, ","))
	fmt.Fprintf(fs.Output(), "Usage of %s:\n", fs.Name())
	fs.PrintDefaults()
}

// newFlagSet creates a flagSet that populates the specified mainFlags.
func (m *mainFlags) newFlagSet(programName string, osLookupEnvFunc func(string) (string, bool)) *flag.FlagSet {
	fs := flag.NewFlagSet(programName, flag.ExitOnError)
	fs.Usage = func() {
		usage(fs) // [lazy evaluation]
	}
	envValue := func(key, defaultValue string) string {
		if envValue, ok := osLookupEnvFunc(key); ok {
			return envValue
		}
		return defaultValue
	}
	envValueInt := func(key string, defaultValue int) int {
		v1 := envValue(key, "")
		v2, err := strconv.Atoi(v1)
		if err != nil {
			return defaultValue
		}
		return v2
	}
	drivers := strings.Join(databaseDrivers, ", ")
	fs.IntVar(&m.port, "port", envValueInt(environmentVariablePort, defaultPort), "The TCP port for server requests.")
	fs.StringVar(&m.databaseDriver, "database-driver", envValue(environmentVariableDatabaseDriver, defaultDatabaseDriver), "The kind of database games are stored in: one of "+drivers+".")
	fs.StringVar(&m.databaseURL, "data-source", envValue(environmentVariableDatabaseURL, ""), "The data source of the database: a connection URI, the sqlite file, or the firestore project id.")
	fs.IntVar(&m.queryPeriodSec, "query-period-sec", envValueInt(environmentVariableQueryPeriodSec, defaultQueryPeriodSec), "The number of seconds any database query can take.")
	fs.StringVar(&m.accountsFile, "accounts-file", envValue(environmentVariableAccountsFile, ""), "The yaml file of the players who can log in and their password hashes.")
	fs.StringVar(&m.tlsCertFile, "tls-cert-file", envValue(environmentVariableTLSCertFile, ""), "The absolute path of the certificate file to use for TLS.")
	fs.StringVar(&m.tlsKeyFile, "tls-key-file", envValue(environmentVariableTLSKeyFile, ""), "The absolute path of the key file to use for TLS.")
	fs.IntVar(&m.tokenValidSec, "token-valid-sec", envValueInt(environmentVariableTokenValidSec, defaultTokenValidSec), "The number of seconds login tokens are valid for.")
	return fs
}

// newMainFlags creates a new, populated mainFlags structure.
// Fields are populated from command line arguments.
// If fields are not specified on the command line, environment variable values are used before defaulting to other defaults.
func newMainFlags(osArgs []string, osLookupEnvFunc func(string) (string, bool)) mainFlags {
	if len(osArgs) == 0 {
		osArgs = []string{""}
	}
	programName, programArgs := osArgs[0], osArgs[1:]
	var m mainFlags
	fs := m.newFlagSet(programName, osLookupEnvFunc)
	fs.Parse(programArgs)
	return m
}
