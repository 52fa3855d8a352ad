package community

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// PostTestSuite provides a test suite for community posts
type PostTestSuite struct {
	suite.Suite
}

func (suite *PostTestSuite) TestNewPost() {
	suite.Run("ValidPost_ShouldStartUnliked", func() {
		post, err := NewPost("currentUser", "我", "👩‍🍳", "data:image/png;base64,abc", "刚出炉的小蛋糕！", "", "")

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), post)
		assert.NotEmpty(suite.T(), post.ID)
		assert.Zero(suite.T(), post.Likes)
		assert.False(suite.T(), post.IsLiked)
		assert.NotZero(suite.T(), post.Timestamp)
	})

	suite.Run("MissingImage_ShouldReturnError", func() {
		post, err := NewPost("currentUser", "我", "👩‍🍳", "", "没有照片", "", "")

		assert.Nil(suite.T(), post)
		assert.ErrorIs(suite.T(), err, ErrMissingImage)
	})

	suite.Run("LinkedTitle_IsSnapshotText", func() {
		post, err := NewPost("currentUser", "我", "👩‍🍳", "data:image/png;base64,abc", "配方在这里", "42", "草莓蛋糕")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "42", post.LinkedRecipeID)
		assert.Equal(suite.T(), "草莓蛋糕", post.LinkedRecipeTitle)
	})
}

func (suite *PostTestSuite) TestToggleLike() {
	suite.Run("LikeThenUnlike_ShouldRoundTrip", func() {
		post, err := NewPost("u", "n", "🐰", "img", "", "", "")
		require.NoError(suite.T(), err)

		post.ToggleLike()
		assert.True(suite.T(), post.IsLiked)
		assert.Equal(suite.T(), 1, post.Likes)

		post.ToggleLike()
		assert.False(suite.T(), post.IsLiked)
		assert.Equal(suite.T(), 0, post.Likes)
	})

	suite.Run("EachToggle_MovesCounterByOne", func() {
		post := Post{Likes: 128, IsLiked: true}

		post.ToggleLike()
		assert.Equal(suite.T(), 127, post.Likes)
		assert.False(suite.T(), post.IsLiked)

		post.ToggleLike()
		assert.Equal(suite.T(), 128, post.Likes)
		assert.True(suite.T(), post.IsLiked)
	})
}

func TestPostTestSuite(t *testing.T) {
	suite.Run(t, new(PostTestSuite))
}
