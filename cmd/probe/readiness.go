package probe

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/open-crosspost/crosspost-proxy/internal/config"
)

const probeTimeout = 5 * time.Second

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Checks the server readiness endpoint",
		Long: `Checks the /-/ready endpoint of a running server.
Exits non-zero when the server or its store is not ready to serve
requests, making it suitable as a container readiness probe.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Error while parsing flags")
			}

			runProbe("/-/ready", verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Print the probe response body")

	return cmd
}

// runProbe hits the given management path on the locally running server
// and exits with a non-zero status on any failure.
func runProbe(path string, verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	listenAddress := cfg.Echo.ListenAddress
	if len(listenAddress) > 0 && listenAddress[0] == ':' {
		listenAddress = "127.0.0.1" + listenAddress
	}

	client := &http.Client{Timeout: probeTimeout}

	res, err := client.Get(fmt.Sprintf("http://%s%s", listenAddress, path))
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Probe request failed")
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("Failed to read probe response")
	}

	if verbose {
		fmt.Fprintln(os.Stdout, string(body))
	}

	if res.StatusCode != http.StatusOK {
		log.Fatal().Int("status", res.StatusCode).Str("path", path).Msg("Probe returned non-OK status")
	}
}
