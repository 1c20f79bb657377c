package penpot

import (
	"context"
)

func (self *PenpotApi) GetTeams(ctx context.Context) ([]any, error) {
	data, err := self.command(ctx, "get-teams", map[string]any{}, false)
	if err != nil {
		return nil, err
	}
	teams, _ := data.([]any)
	return teams, nil
}

func (self *PenpotApi) ListProjects(ctx context.Context) ([]any, error) {
	data, err := self.command(ctx, "get-all-projects", map[string]any{}, false)
	if err != nil {
		return nil, err
	}
	projects, _ := data.([]any)
	return projects, nil
}

func (self *PenpotApi) GetProject(ctx context.Context, projectId string) (map[string]any, error) {
	data, err := self.command(ctx, "get-project", map[string]any{
		"id": projectId,
	}, false)
	if err != nil {
		return nil, err
	}
	project, _ := data.(map[string]any)
	return project, nil
}

func (self *PenpotApi) CreateProject(ctx context.Context, name string, teamId string) (map[string]any, error) {
	data, err := self.command(ctx, "create-project", map[string]any{
		"name":    name,
		"team-id": teamId,
	}, false)
	if err != nil {
		return nil, err
	}
	project, _ := data.(map[string]any)
	return project, nil
}

func (self *PenpotApi) RenameProject(ctx context.Context, projectId string, name string) (map[string]any, error) {
	data, err := self.command(ctx, "rename-project", map[string]any{
		"id":   projectId,
		"name": name,
	}, false)
	if err != nil {
		return nil, err
	}
	project, _ := data.(map[string]any)
	return project, nil
}

// DeleteProject deletes a project and every file in it.
func (self *PenpotApi) DeleteProject(ctx context.Context, projectId string) error {
	_, err := self.command(ctx, "delete-project", map[string]any{
		"id": projectId,
	}, false)
	return err
}

func (self *PenpotApi) GetProjectFiles(ctx context.Context, projectId string) ([]any, error) {
	data, err := self.command(ctx, "get-project-files", map[string]any{
		"project-id": projectId,
	}, false)
	if err != nil {
		return nil, err
	}
	files, _ := data.([]any)
	return files, nil
}
