package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jimezsa/jobfinder/internal/config"
	"github.com/jimezsa/jobfinder/internal/models"
	"github.com/jimezsa/jobfinder/internal/network"
)

const proxyCheckParallelism = 4

type ProxiesCmd struct {
	Check ProxyCheckCmd `cmd:"" help:"Fetch a target through each configured proxy."`
}

type ProxyCheckCmd struct {
	Target  string `help:"Target URL." default:"https://www.arbeitnow.com/api/job-board-api"`
	Timeout int    `help:"Timeout in seconds." default:"15"`
	Proxies string `help:"Comma-separated proxy URLs; defaults to the proxies file." env:"JOBFINDER_PROXIES"`
	// Proxies that answer with a captive or block page fail the JSON decode.
	ExpectJSON bool `name:"expect-json" help:"Require a JSON body from the target." default:"true" negatable:""`
}

type ProxyCheckResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *ProxyCheckCmd) Run(ctx *Context) error {
	proxies, err := config.LoadProxies(p.Proxies)
	if err != nil {
		return err
	}
	if len(proxies) == 0 {
		return fmt.Errorf("no proxies configured; add them to the proxies file or pass --proxies")
	}

	timeout := time.Duration(p.Timeout) * time.Second
	results := make([]ProxyCheckResult, len(proxies))

	group, groupCtx := errgroup.WithContext(ctx.context())
	group.SetLimit(proxyCheckParallelism)
	for i, proxy := range proxies {
		i, proxy := i, proxy
		group.Go(func() error {
			results[i] = checkProxy(groupCtx, proxy, p.Target, timeout, p.ExpectJSON)
			ctx.Logger.Debug().Str("proxy", proxy).Str("status", results[i].Status).Msg("proxy checked")
			return nil
		})
	}
	_ = group.Wait()

	return writeProxyResults(ctx, results)
}

// checkProxy fetches target through a client pinned to a single proxy.
func checkProxy(ctx context.Context, proxy, target string, timeout time.Duration, expectJSON bool) ProxyCheckResult {
	result := ProxyCheckResult{Proxy: proxy}
	rotator, err := network.NewRotator([]string{proxy}, 5*time.Minute)
	if err != nil {
		result.Status = "invalid"
		result.Error = err.Error()
		return result
	}
	client, err := network.NewClient(models.FetchOptions{Timeout: timeout}, rotator, nil)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	if expectJSON {
		_, err = network.FetchJSON(ctx, client, target)
	} else {
		_, err = client.FetchText(ctx, target)
	}
	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status, result.Error = classifyFetch(err)
	return result
}

func classifyFetch(err error) (string, string) {
	if err == nil {
		return "ok", ""
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "bad-body", err.Error()
	}
	var fetchErr *network.FetchError
	if errors.As(err, &fetchErr) {
		if fetchErr.Status > 0 {
			return strconv.Itoa(fetchErr.Status), ""
		}
		if fetchErr.Timeout() {
			return "timeout", err.Error()
		}
	}
	return "error", err.Error()
}

func writeProxyResults(ctx *Context, results []ProxyCheckResult) error {
	if ctx.JSONOutput {
		return writeJSONValue(ctx.Out, results)
	}

	if ctx.PlainText {
		for _, res := range results {
			fmt.Fprintf(ctx.Out, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
