// Package apiclient — HTTP-адаптер контент-API.
//
// Отвечает за сборку URL (base + endpoint + query), кодирование тела (JSON, form, multipart),
// bearer-авторизацию и нормализацию ответов: ошибки статуса превращаются в *APIError,
// 204 — в «пустой объект», не-JSON тело успешного ответа не роняет вызывающего.
// Ретраев нет: каждая ошибка возвращается вызывающему как есть.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// ErrUnexpectedBody — успешный ответ не является JSON, а вызывающий ждёт типизированную структуру.
var ErrUnexpectedBody = errors.New("unexpected non-JSON response body")

// ContentType — способ кодирования тела запроса.
type ContentType int

const (
	ContentJSON ContentType = iota
	ContentForm
	ContentMultipart
)

// Multipart — готовое multipart-тело. ContentType содержит boundary и уходит без изменений.
type Multipart struct {
	Body        io.Reader
	ContentType string
}

// RequestOptions — параметры одного запроса.
// Data отправляется только для методов, отличных от GET.
type RequestOptions struct {
	Method      string
	Headers     map[string]string
	Params      url.Values
	Data        any
	Token       string
	ContentType ContentType
}

// Response — буферизованный ответ: тело прочитано ровно один раз
// и может разбираться повторно (JSON, затем текст).
type Response struct {
	Status     int
	StatusText string
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

type Client struct {
	base string
	hc   *http.Client
	mws  []Middleware
}

type Option func(*Client)

// WithHTTPClient — собственный http.Client (копируется, исходный не меняется).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			cp := *hc
			c.hc = &cp
		}
	}
}

// WithMiddleware — цепочка RoundTripper-обёрток; первый элемент внешний.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *Client) { c.mws = append(c.mws, mws...) }
}

// New — клиент для baseURL вида http://localhost:1337/api.
func New(baseURL string, opts ...Option) (*Client, error) {
	const op = "apiclient/New"

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", op, err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: base url must be absolute: %q", op, baseURL)
	}

	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{},
	}

	for _, o := range opts {
		o(c)
	}

	rt := c.hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}

	c.hc.Transport = Chain(rt, c.mws...)

	return c, nil
}

// BaseURL — базовый адрес API без завершающего слэша.
func (c *Client) BaseURL() string { return c.base }

// Send выполняет запрос и буферизует тело ответа без интерпретации статуса.
// Транспортные ошибки возвращаются обёрнутыми (*url.Error сохраняется для errors.As).
func (c *Client) Send(ctx context.Context, endpoint string, opts RequestOptions) (*Response, error) {
	const op = "apiclient/Send"

	req, err := c.newRequest(ctx, endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	return &Response{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Header:     resp.Header,
		Body:       body,
	}, nil
}

// Request выполняет запрос и декодирует успешный ответ в out (может быть nil).
//
// Контракт:
//  1. статус вне 2xx — ошибка, содержащая *APIError;
//  2. 204 или пустое тело — «пустой объект»: map/any инициализируются, структуры остаются нулевыми;
//  3. не-JSON тело пишется как текст в *string/*[]byte/*any, для прочих out — ErrUnexpectedBody.
func (c *Client) Request(ctx context.Context, endpoint string, opts RequestOptions, out any) error {
	const op = "apiclient/Request"

	resp, err := c.Send(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%s: %w", op, NewAPIError(resp))
	}

	if resp.Status == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		emptyObject(out)
		return nil
	}

	if err := decode(resp.Body, out); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Do — типизированная обёртка над Request.
func Do[T any](ctx context.Context, c *Client, endpoint string, opts RequestOptions) (T, error) {
	var out T
	err := c.Request(ctx, endpoint, opts, &out)
	return out, err
}

func (c *Client) Get(ctx context.Context, endpoint string, params url.Values, token string, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodGet, Params: params, Token: token}, out)
}

func (c *Client) Post(ctx context.Context, endpoint string, data any, token string, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodPost, Data: data, Token: token}, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, data any, token string, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodPut, Data: data, Token: token}, out)
}

func (c *Client) Patch(ctx context.Context, endpoint string, data any, token string, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodPatch, Data: data, Token: token}, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, token string, out any) error {
	return c.Request(ctx, endpoint, RequestOptions{Method: http.MethodDelete, Token: token}, out)
}

func (c *Client) newRequest(ctx context.Context, endpoint string, opts RequestOptions) (*http.Request, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	u, err := url.Parse(c.base + "/" + strings.TrimLeft(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("build url: %w", err)
	}

	if len(opts.Params) > 0 {
		q := u.Query()
		for k, vs := range opts.Params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	body, contentType, err := encodeBody(method, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	return req, nil
}

func encodeBody(method string, opts RequestOptions) (io.Reader, string, error) {
	if method == http.MethodGet || opts.Data == nil {
		return nil, "", nil
	}

	switch opts.ContentType {
	case ContentForm:
		vals, err := formValues(opts.Data)
		if err != nil {
			return nil, "", err
		}

		return strings.NewReader(vals.Encode()), "application/x-www-form-urlencoded", nil
	case ContentMultipart:
		switch m := opts.Data.(type) {
		case Multipart:
			return m.Body, m.ContentType, nil
		case *Multipart:
			return m.Body, m.ContentType, nil
		default:
			return nil, "", fmt.Errorf("multipart body must be apiclient.Multipart, got %T", opts.Data)
		}
	default:
		b, err := json.Marshal(opts.Data)
		if err != nil {
			return nil, "", fmt.Errorf("encode json body: %w", err)
		}

		return bytes.NewReader(b), "application/json", nil
	}
}

// formValues приводит данные к url.Values; структуры проходят через их JSON-представление,
// скаляры записываются строкой, nil-значения пропускаются.
func formValues(data any) (url.Values, error) {
	switch d := data.(type) {
	case url.Values:
		return d, nil
	case map[string]string:
		vals := make(url.Values, len(d))
		for k, v := range d {
			vals.Set(k, v)
		}
		return vals, nil
	}

	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode form body: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("form body must be an object, got %T", data)
	}

	vals := make(url.Values, len(m))
	for k, v := range m {
		switch x := v.(type) {
		case nil:
			continue
		case string:
			vals.Set(k, x)
		case float64:
			vals.Set(k, strconv.FormatFloat(x, 'f', -1, 64))
		default:
			vals.Set(k, fmt.Sprint(x))
		}
	}

	return vals, nil
}

func decode(body []byte, out any) error {
	if out == nil {
		return nil
	}

	if b, ok := out.(*[]byte); ok {
		*b = append((*b)[:0], body...)
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		switch v := out.(type) {
		case *string:
			*v = string(body)
			return nil
		case *any:
			*v = string(body)
			return nil
		}

		var se *json.SyntaxError
		if errors.As(err, &se) {
			return fmt.Errorf("%w: %s", ErrUnexpectedBody, snippet(body))
		}

		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func emptyObject(out any) {
	if out == nil {
		return
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}

	el := rv.Elem()
	switch el.Kind() {
	case reflect.Map:
		el.Set(reflect.MakeMap(el.Type()))
	case reflect.Interface:
		if el.NumMethod() == 0 {
			el.Set(reflect.ValueOf(map[string]any{}))
		}
	}
}

func statusText(resp *http.Response) string {
	s := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if s == "" {
		s = http.StatusText(resp.StatusCode)
	}

	return s
}

func snippet(b []byte) string {
	const limit = 128
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}

	return s
}
