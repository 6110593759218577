package main

import (
	"fmt"
	"strconv"
	"strings"

	"backend-antisocial/internal/apperr"
	"backend-antisocial/internal/auth"
	"backend-antisocial/internal/social"

	"github.com/spf13/cobra"
)

func feedCmd(c *client) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Show every post, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := c.ctx(cmd)
			view := social.NewView()
			if _, err := view.Load(ctx, c.feed); err != nil {
				return err
			}
			if tag != "" {
				ids, err := c.tagIDs(cmd, []string{tag})
				if err != nil {
					return err
				}
				view.Select(&ids[0])
			}
			items := view.Items()
			if len(items) == 0 {
				fmt.Fprintln(c.out, "no posts yet")
				return nil
			}
			for _, item := range items {
				printItem(c, item)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only show posts with this tag name")
	return cmd
}

func postCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "post ID",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			detail, err := c.feed.PostDetail(c.ctx(cmd), id)
			if err != nil {
				return err
			}
			printItem(c, detail.FeedItem)
			for _, comment := range detail.Comments {
				fmt.Fprintf(c.out, "    %s: %s\n", comment.Author.NickName, comment.Content)
			}
			return nil
		},
	}
}

func profileCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show your own posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := auth.RequireAuthenticated(c.session)
			if err != nil {
				return err
			}
			items, err := c.feed.GetUserFeed(c.ctx(cmd), id.UserID)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "%s <%s> - %d posts\n", id.NickName, id.Email, len(items))
			for _, item := range items {
				printItem(c, item)
			}
			return nil
		},
	}
}

func tagsCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := c.feed.Tags(c.ctx(cmd))
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintf(c.out, "%d\t%s\n", t.ID, t.Name)
			}
			return nil
		},
	}
}

func registerCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "register NICK EMAIL",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.session.Register(c.ctx(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "welcome, %s\n", id.NickName)
			return nil
		},
	}
}

func loginCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "login NICK PASSWORD",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.session.Login(c.ctx(cmd), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "signed in as %s\n", id.NickName)
			return nil
		},
	}
}

func logoutCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.session.Logout(c.ctx(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "signed out")
			return nil
		},
	}
}

func whoamiCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := c.session.Current()
			if !ok {
				fmt.Fprintln(c.out, "anonymous")
				return nil
			}
			fmt.Fprintf(c.out, "%s (#%d)\n", id.NickName, id.UserID)
			return nil
		},
	}
}

func publishCmd(c *client) *cobra.Command {
	var images, tags []string
	cmd := &cobra.Command{
		Use:   "publish DESCRIPTION",
		Short: "Publish a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// reject bad input before tag names are looked up
			if strings.TrimSpace(args[0]) == "" {
				return apperr.InvalidInput("description required")
			}
			if _, err := auth.RequireAuthenticated(c.session); err != nil {
				return err
			}
			var tagIDs []int64
			if len(tags) > 0 {
				ids, err := c.tagIDs(cmd, tags)
				if err != nil {
					return err
				}
				tagIDs = ids
			}
			item, err := c.feed.SubmitPost(c.ctx(cmd), c.session, args[0], images, tagIDs)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "published #%d\n", item.Post.ID)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&images, "image", nil, "image url (repeatable)")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "tag name (repeatable)")
	return cmd
}

func commentCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "comment POST_ID CONTENT",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			comment, err := c.feed.SubmitComment(c.ctx(cmd), c.session, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "commented on #%d\n", comment.PostID)
			return nil
		},
	}
}

// tagIDs resolves tag names case-insensitively.
func (c *client) tagIDs(cmd *cobra.Command, names []string) ([]int64, error) {
	all, err := c.feed.Tags(c.ctx(cmd))
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int64, len(all))
	for _, t := range all {
		byName[strings.ToLower(t.Name)] = t.ID
	}
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, apperr.InvalidInput("unknown tag: " + name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("invalid post id: " + raw)
	}
	return id, nil
}

func printItem(c *client, item social.FeedItem) {
	fmt.Fprintf(c.out, "#%d %s  %s\n", item.Post.ID, item.Author.NickName, item.Post.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(c.out, "  %s\n", item.Post.Description)
	names := make([]string, len(item.Tags))
	for i, t := range item.Tags {
		names[i] = t.Name
	}
	fmt.Fprintf(c.out, "  tags: %s | images: %d | comments: %d\n", strings.Join(names, ", "), len(item.Images), item.CommentCount)
}
