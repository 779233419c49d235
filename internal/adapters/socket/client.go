package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"
)

// Client connects to the occ daemon over a Unix socket.
type Client struct {
	sockPath string
}

// NewClient creates a client that will connect to the given socket path.
func NewClient(sockPath string) *Client {
	return &Client{sockPath: sockPath}
}

// Convert asks the daemon to run text through a conversion.
func (c *Client) Convert(conversion, text string) (*ConvertResult, error) {
	resp, err := c.callWithTimeout(Request{
		ID:     "1",
		Method: MethodConvert,
		Params: ConvertParams{Conversion: conversion, Text: text},
	}, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return decodeResult[ConvertResult](resp)
}

// Scan asks the daemon which substitutions a conversion would make.
func (c *Client) Scan(params ScanParams) (*ScanResult, error) {
	resp, err := c.callWithTimeout(Request{
		ID:     "1",
		Method: MethodScan,
		Params: params,
	}, 30*time.Second)
	if err != nil {
		return nil, err
	}
	return decodeResult[ScanResult](resp)
}

// Health sends a health check request.
func (c *Client) Health() (*HealthResult, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodHealth,
	})
	if err != nil {
		return nil, err
	}
	return decodeResult[HealthResult](resp)
}

// Dictionaries lists the dictionaries known to the daemon.
func (c *Client) Dictionaries() (*DictionariesResult, error) {
	resp, err := c.call(Request{
		ID:     "1",
		Method: MethodDictionaries,
	})
	if err != nil {
		return nil, err
	}
	return decodeResult[DictionariesResult](resp)
}

// Reload asks the daemon to re-read one dictionary, or all when name is
// empty, with an extended timeout.
func (c *Client) Reload(name string) (*ReloadResult, error) {
	resp, err := c.callWithTimeout(Request{
		ID:     "1",
		Method: MethodReload,
		Params: ReloadParams{Name: name},
	}, 120*time.Second)
	if err != nil {
		return nil, err
	}
	return decodeResult[ReloadResult](resp)
}

// Shutdown sends a shutdown request to the daemon.
func (c *Client) Shutdown() error {
	_, err := c.call(Request{
		ID:     "1",
		Method: MethodShutdown,
	})
	return err
}

// Ping checks if the daemon is reachable.
func (c *Client) Ping() bool {
	conn, err := net.DialTimeout("unix", c.sockPath, 500*time.Millisecond)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// decodeResult re-marshals the loosely typed result into T.
func decodeResult[T any](resp *Response) (*T, error) {
	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	var result T
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("unmarshal result: %w", err)
	}
	return &result, nil
}

func (c *Client) call(req Request) (*Response, error) {
	return c.callWithTimeout(req, 5*time.Second)
}

func (c *Client) callWithTimeout(req Request, timeout time.Duration) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.sockPath, 2*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	// Set deadline for the whole request/response
	conn.SetDeadline(time.Now().Add(timeout))

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), maxMessage)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return nil, fmt.Errorf("empty response")
	}

	var resp Response
	if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("server error: %s", resp.Error)
	}
	return &resp, nil
}
