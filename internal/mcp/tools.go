package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleApplyProfile(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyProfileInput) (*mcpsdk.CallToolResult, ApplyProfileOutput, error) {
	report, err := s.client.ApplyProfile(args.Profile)
	if err != nil {
		return nil, ApplyProfileOutput{}, err
	}

	return nil, ApplyProfileOutput{
		ReportID:   report.ReportID,
		Profile:    report.Profile,
		Applied:    report.Applied,
		Missing:    report.Missing,
		Failed:     report.Failed,
		DurationMS: report.DurationMS,
	}, nil
}

func (s *Server) handleResetWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ResetWindowsInput) (*mcpsdk.CallToolResult, ResetWindowsOutput, error) {
	if args.Profile == "" {
		if err := s.client.ResetAll(); err != nil {
			return nil, ResetWindowsOutput{}, err
		}
		return nil, ResetWindowsOutput{All: true}, nil
	}

	if err := s.client.ResetProfile(args.Profile); err != nil {
		return nil, ResetWindowsOutput{}, err
	}
	return nil, ResetWindowsOutput{Profile: args.Profile}, nil
}

func (s *Server) handleListProfiles(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListProfilesInput) (*mcpsdk.CallToolResult, ListProfilesOutput, error) {
	data, err := s.client.ListProfiles()
	if err != nil {
		return nil, ListProfilesOutput{}, err
	}
	return nil, ListProfilesOutput{Profiles: data.Profiles}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	data, err := s.client.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	out := ListWindowsOutput{Windows: make([]WindowEntry, len(data.Windows))}
	for i, w := range data.Windows {
		out.Windows[i] = WindowEntry{
			ID:      w.ID,
			PID:     w.PID,
			Process: w.Process,
			Title:   w.Title,
			X:       w.X,
			Y:       w.Y,
			Width:   w.Width,
			Height:  w.Height,
		}
	}
	return nil, out, nil
}

func (s *Server) handleFindMatches(_ context.Context, _ *mcpsdk.CallToolRequest, args FindMatchesInput) (*mcpsdk.CallToolResult, FindMatchesOutput, error) {
	data, err := s.client.FindMatches(args.Profile)
	if err != nil {
		return nil, FindMatchesOutput{}, err
	}

	out := FindMatchesOutput{Missing: data.Missing}
	for _, m := range data.Resolved {
		out.Resolved = append(out.Resolved, MatchEntry{
			Name:     m.Name,
			WindowID: m.WindowID,
			Title:    m.Title,
		})
	}
	return nil, out, nil
}

func (s *Server) handleGenerateLayout(_ context.Context, _ *mcpsdk.CallToolRequest, args GenerateLayoutInput) (*mcpsdk.CallToolResult, GenerateLayoutOutput, error) {
	preset := -1
	if args.Preset != nil {
		preset = *args.Preset
	}

	data, err := s.client.GenerateLayout(args.Count, preset, args.Apply)
	if err != nil {
		return nil, GenerateLayoutOutput{}, err
	}

	out := GenerateLayoutOutput{Count: data.Count, Preset: data.Preset}
	for _, p := range data.Panes {
		out.Panes = append(out.Panes, PaneEntry{
			X:           p.X,
			Y:           p.Y,
			Width:       p.Width,
			Height:      p.Height,
			AlwaysOnTop: p.AlwaysOnTop,
			Titlebar:    p.Titlebar,
		})
	}
	return nil, out, nil
}

func (s *Server) handleDetectProfile(_ context.Context, _ *mcpsdk.CallToolRequest, _ DetectProfileInput) (*mcpsdk.CallToolResult, DetectProfileOutput, error) {
	data, err := s.client.DetectProfile()
	if err != nil {
		return nil, DetectProfileOutput{}, err
	}
	return nil, DetectProfileOutput{Profile: data.Profile}, nil
}
