package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"sort"
	"sync"
	"time"
)

// Result 记录单次请求的 HTTP 结果，便于聚合统计。
type Result struct {
	Status  int
	Latency time.Duration
	Err     error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	email := flag.String("email", "admin@example.com", "admin email")
	password := flag.String("password", "", "admin password")
	total := flag.Int("n", 500, "list requests")
	concurrency := flag.Int("c", 50, "max concurrency")
	loginAttempts := flag.Int("login-attempts", 20, "wrong-password attempts for the rate limit test")
	flag.Parse()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Timeout: 5 * time.Second,
		Jar:     jar,
		// 网关的 302 需要原样观察，不跟随
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	// 1) 登录拿会话 cookie
	if status, err := postJSON(client, *baseURL+"/login", map[string]string{
		"email":    *email,
		"password": *password,
	}); err != nil || status != http.StatusOK {
		panic(fmt.Sprintf("login failed: status=%d err=%v", status, err))
	}
	fmt.Println("login ok")

	// 2) 列表读压测：第一次落库，之后应命中 Redis 缓存
	fmt.Printf("start list test: requests=%d concurrency=%d\n", *total, *concurrency)
	results := run(*total, *concurrency, func(int) Result {
		return getOnce(client, *baseURL+"/admin/products?sort_by=created_at&sort_order=desc")
	})
	printSummary("list", results)

	// 3) 登录限流：错误密码连续请求，应出现 429
	anon := &http.Client{Timeout: 5 * time.Second}
	fmt.Printf("\nstart login rate limit test: %d attempts\n", *loginAttempts)
	results = run(*loginAttempts, 1, func(int) Result {
		start := time.Now()
		status, err := postJSON(anon, *baseURL+"/login", map[string]string{
			"email":    *email,
			"password": "definitely-wrong",
		})
		return Result{Status: status, Latency: time.Since(start), Err: err}
	})
	printSummary("login_rate_limit", results)
}

// run 以固定并发执行 n 次 fn。
func run(n, concurrency int, fn func(idx int) Result) []Result {
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = fn(idx)
		}(i)
	}

	wg.Wait()
	return results
}

func getOnce(client *http.Client, url string) Result {
	start := time.Now()
	resp, err := client.Get(url)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return Result{Status: resp.StatusCode, Latency: time.Since(start)}
}

// printSummary 聚合输出状态码分布和延迟分位数。
func printSummary(name string, results []Result) {
	count := map[int]int{}
	errCount := 0
	latencies := make([]time.Duration, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
		latencies = append(latencies, r.Latency)
	}
	fmt.Printf("[%s] http status summary:\n", name)
	for _, code := range []int{200, 302, 400, 401, 404, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		fmt.Printf("  p50=%s p99=%s\n", latencies[len(latencies)/2], latencies[len(latencies)*99/100])
	}
}

// postJSON 发送 JSON POST，返回状态码。
func postJSON(client *http.Client, url string, body any) (int, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
