package response

import "github.com/gin-gonic/gin"

// JSON writes data as the bare response body.
func JSON(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Error writes the {"error": message} body every endpoint uses for failures.
func Error(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

// AbortError is Error for middleware that must stop the chain.
func AbortError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}

func Message(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"message": message})
}

// The write-result bodies below keep the shape of the document driver
// acknowledgements older dashboard builds read.

func Inserted(c *gin.Context, statusCode int, id string) {
	c.JSON(statusCode, gin.H{
		"acknowledged": true,
		"insertedId":   id,
	})
}

func Updated(c *gin.Context, statusCode int, matched, modified int64) {
	c.JSON(statusCode, gin.H{
		"acknowledged":  true,
		"matchedCount":  matched,
		"modifiedCount": modified,
	})
}

func Deleted(c *gin.Context, statusCode int, deleted int64) {
	c.JSON(statusCode, gin.H{
		"acknowledged": true,
		"deletedCount": deleted,
	})
}
