package apigw

import (
	"fmt"
	"strconv"
	"strings"
)

// Default CORS settings, matching what API Gateway consoles and CDK use.
var (
	DefaultCorsHeaders = []string{"Content-Type", "X-Amz-Date", "Authorization", "X-Api-Key", "X-Amz-Security-Token", "X-Amz-User-Agent"}
	DefaultCorsMethods = []string{"OPTIONS", "GET", "PUT", "POST", "DELETE", "PATCH", "HEAD"}
	AllOrigins         = []string{"*"}
)

const corsHeaderPrefix = "method.response.header."

// Cors configures a CORS preflight response.
type Cors struct {
	// AllowOrigins defaults to AllOrigins.
	AllowOrigins []string `json:"allowOrigins,omitempty"`
	// AllowMethods defaults to DefaultCorsMethods.
	AllowMethods []string `json:"allowMethods,omitempty"`
	// AllowHeaders defaults to DefaultCorsHeaders.
	AllowHeaders     []string `json:"allowHeaders,omitempty"`
	ExposeHeaders    []string `json:"exposeHeaders,omitempty"`
	AllowCredentials bool     `json:"allowCredentials,omitempty"`
	// MaxAge is the preflight cache duration in seconds; 0 omits the header.
	MaxAge int `json:"maxAge,omitempty"`
	// StatusCode defaults to 204.
	StatusCode int `json:"statusCode,omitempty"`
}

func (c Cors) withDefaults() Cors {
	if len(c.AllowOrigins) == 0 {
		c.AllowOrigins = AllOrigins
	}
	if len(c.AllowMethods) == 0 {
		c.AllowMethods = DefaultCorsMethods
	}
	if len(c.AllowHeaders) == 0 {
		c.AllowHeaders = DefaultCorsHeaders
	}
	if c.StatusCode == 0 {
		c.StatusCode = 204
	}
	return c
}

func (c Cors) validate() error {
	c = c.withDefaults()
	if c.AllowCredentials {
		for _, o := range c.AllowOrigins {
			if o == "*" {
				return fmt.Errorf("allowCredentials cannot be combined with the '*' origin")
			}
		}
	}
	if len(c.AllowOrigins) > 1 {
		for _, o := range c.AllowOrigins {
			if o == "*" {
				return fmt.Errorf("'*' must be the only origin when used")
			}
		}
	}
	if c.StatusCode < 200 || c.StatusCode > 299 {
		return fmt.Errorf("statusCode must be a 2xx code, got %d", c.StatusCode)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("maxAge cannot be negative")
	}
	return nil
}

// headers returns the response headers in the order they are declared,
// mapped to their static values (already single-quoted).
func (c Cors) headers() ([]string, map[string]string) {
	c = c.withDefaults()
	values := map[string]string{
		"Access-Control-Allow-Headers": quote(strings.Join(c.AllowHeaders, ",")),
		"Access-Control-Allow-Methods": quote(strings.Join(c.AllowMethods, ",")),
		"Access-Control-Allow-Origin":  quote(c.AllowOrigins[0]),
	}
	names := []string{"Access-Control-Allow-Headers", "Access-Control-Allow-Methods", "Access-Control-Allow-Origin"}
	if c.AllowOrigins[0] != "*" {
		values["Vary"] = quote("Origin")
		names = append(names, "Vary")
	}
	if c.AllowCredentials {
		values["Access-Control-Allow-Credentials"] = quote("true")
		names = append(names, "Access-Control-Allow-Credentials")
	}
	if len(c.ExposeHeaders) > 0 {
		values["Access-Control-Expose-Headers"] = quote(strings.Join(c.ExposeHeaders, ","))
		names = append(names, "Access-Control-Expose-Headers")
	}
	if c.MaxAge > 0 {
		values["Access-Control-Max-Age"] = quote(strconv.Itoa(c.MaxAge))
		names = append(names, "Access-Control-Max-Age")
	}
	return names, values
}

// originTemplate echoes the request origin back when it is one of several
// allowed origins. A single static origin needs no template.
func (c Cors) originTemplate() string {
	c = c.withDefaults()
	if len(c.AllowOrigins) < 2 {
		return ""
	}
	conds := make([]string, 0, len(c.AllowOrigins)-1)
	for _, o := range c.AllowOrigins[1:] {
		conds = append(conds, fmt.Sprintf("$origin == %q", o))
	}
	return strings.Join([]string{
		`#set($origin = $input.params().header.get("Origin"))`,
		`#if($origin == "")#set($origin = $input.params().header.get("origin"))#end`,
		`#if(` + strings.Join(conds, " || ") + `)`,
		`  #set($context.responseOverride.header.Access-Control-Allow-Origin = $origin)`,
		`#end`,
	}, "\n")
}

func quote(s string) string {
	return "'" + s + "'"
}

// CorsIntegration returns a mock integration answering CORS preflight
// requests with the configured Access-Control-Allow-* headers.
func CorsIntegration(c Cors) *Integration {
	c = c.withDefaults()
	names, values := c.headers()
	params := make(map[string]string, len(names))
	for _, name := range names {
		params[corsHeaderPrefix+name] = values[name]
	}
	resp := IntegrationResponse{
		StatusCode:         strconv.Itoa(c.StatusCode),
		ResponseParameters: params,
	}
	if tmpl := c.originTemplate(); tmpl != "" {
		resp.ResponseTemplates = map[string]string{"application/json": tmpl}
	}
	return &Integration{
		Type:                IntegrationMock,
		PassthroughBehavior: PassthroughWhenNoMatch,
		RequestTemplates: map[string]string{
			"application/json": fmt.Sprintf(`{"statusCode": %d}`, c.StatusCode),
		},
		Responses: map[string]IntegrationResponse{"default": resp},
		cors:      &c,
	}
}
