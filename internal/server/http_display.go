package server

import "fmt"

// displayServerInfo prints the endpoints and the security posture at startup
func (s *Server) displayServerInfo() {
	fmt.Println("Available endpoints:")
	fmt.Println("  GET  /health                        - Health check")
	fmt.Println("  GET  /stats                         - Server statistics")
	fmt.Println("  POST /api/v1/resumes                - Upload resume (pdf, docx, txt or text field)")
	fmt.Println("  GET  /api/v1/resumes/{id}           - Stored resume")
	fmt.Println("  PUT  /api/v1/resumes/{id}/sections  - Edit resume sections")
	fmt.Println("  GET  /api/v1/resumes/{id}/formatted - Markdown with keyword highlights (?jdId=)")
	fmt.Println("  POST /api/v1/jd/extract             - Extract job description (text or url)")
	fmt.Println("  GET  /api/v1/jd/{id}                - Stored job description")
	fmt.Println("  POST /api/v1/optimize               - Start optimization job")
	fmt.Println("  GET  /api/v1/jobs/{id}              - Job status")
	fmt.Println("  GET  /api/v1/jobs/{id}/result       - Optimization result")
	fmt.Println("  GET  /api/v1/jobs/{id}/download     - Export (?format=pdf|docx|md)")
	fmt.Println("  POST /api/v1/segment|extract|score  - Stateless analysis")

	if len(s.APIKeys) > 0 {
		fmt.Printf("API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
	} else {
		fmt.Println("API authentication: DISABLED (no API keys configured)")
		fmt.Println("WARNING: API endpoints are publicly accessible!")
	}

	fmt.Printf("Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))

	if s.RateLimiter != nil {
		fmt.Printf("Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
	} else {
		fmt.Println("Rate limiting: DISABLED")
	}
	if s.fetcher != nil {
		fmt.Println("Job description URL fetching: ENABLED")
	}
}
