package simd

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/bandit-sim/internal/improvement"
	"github.com/GoSim-25-26J-441/bandit-sim/internal/metrics"
	"github.com/GoSim-25-26J-441/bandit-sim/pkg/models"
)

// Client is a typed client for BanditService
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	b, err := marshalJSON(req)
	if err != nil {
		return err
	}
	in := new(structpb.Struct)
	if err := protojson.Unmarshal(b, in); err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+BanditServiceName+"/"+method, in, out); err != nil {
		return err
	}

	b, err = protojson.Marshal(out)
	if err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return unmarshalJSON(b, resp)
}

// CreateSession creates a session; an empty id lets the server pick one.
func (c *Client) CreateSession(ctx context.Context, id string) (*SessionView, error) {
	var resp struct {
		Session SessionView `json:"session"`
	}
	if err := c.invoke(ctx, "CreateSession", sessionRequest{SessionID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *Client) SimulateRandom(ctx context.Context, id string, params RunParams) (*RunView, error) {
	return c.simulate(ctx, "SimulateRandom", id, params)
}

func (c *Client) SimulateGreedy(ctx context.Context, id string, params RunParams) (*RunView, error) {
	return c.simulate(ctx, "SimulateGreedy", id, params)
}

func (c *Client) simulate(ctx context.Context, method, id string, params RunParams) (*RunView, error) {
	var resp struct {
		Run RunView `json:"run"`
	}
	if err := c.invoke(ctx, method, simulateRequest{SessionID: id, RunParams: params}, &resp); err != nil {
		return nil, err
	}
	return &resp.Run, nil
}

func (c *Client) Compare(ctx context.Context, id string, params CompareParams) (*CompareResult, error) {
	var resp CompareResult
	if err := c.invoke(ctx, "Compare", compareRequest{SessionID: id, CompareParams: params}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Summarize(ctx context.Context, id string, policy models.Policy) (*metrics.Summary, error) {
	var resp struct {
		Summary *metrics.Summary `json:"summary"`
	}
	if err := c.invoke(ctx, "Summarize", summarizeRequest{SessionID: id, Policy: string(policy)}, &resp); err != nil {
		return nil, err
	}
	return resp.Summary, nil
}

// Replay fetches the greedy run as of step; a nil step means the full run.
func (c *Client) Replay(ctx context.Context, id string, step *int) (*ReplayResult, error) {
	var resp ReplayResult
	if err := c.invoke(ctx, "Replay", replayRequest{SessionID: id, Step: step}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ResetSession(ctx context.Context, id string) (*SessionView, error) {
	var resp struct {
		Session SessionView `json:"session"`
	}
	if err := c.invoke(ctx, "ResetSession", sessionRequest{SessionID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Session, nil
}

func (c *Client) TuneEpsilon(ctx context.Context, params TuneParams) (*improvement.Result, error) {
	var resp struct {
		Tuning *improvement.Result `json:"tuning"`
	}
	if err := c.invoke(ctx, "TuneEpsilon", params, &resp); err != nil {
		return nil, err
	}
	return resp.Tuning, nil
}

func marshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

func unmarshalJSON(b []byte, v any) error {
	return json.Unmarshal(b, v)
}
