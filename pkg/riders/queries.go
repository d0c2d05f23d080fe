package riders

const activitiesQuery = `query Activities(
  $cityID: Int
  $endTimeMs: Float
  $includePast: Boolean = true
  $includeUpcoming: Boolean = false
  $limit: Int = 60
  $nextPageToken: String
  $orderTypes: [RVWebCommonActivityOrderType!] = [RIDES, TRAVEL]
  $profileType: RVWebCommonActivityProfileType = PERSONAL
  $startTimeMs: Float
) {
  activities(cityID: $cityID) {
    past(
      endTimeMs: $endTimeMs
      limit: $limit
      nextPageToken: $nextPageToken
      orderTypes: $orderTypes
      profileType: $profileType
      startTimeMs: $startTimeMs
    ) @include(if: $includePast) {
      activities {
        uuid
        cardURL
        description
        subtitle
        __typename
      }
      nextPageToken
      __typename
    }
    upcoming @include(if: $includeUpcoming) {
      activities {
        uuid
        cardURL
        description
        subtitle
        __typename
      }
      __typename
    }
    __typename
  }
}`

const getTripQuery = `query GetTrip($tripUUID: String!) {
  getTrip(tripUUID: $tripUUID) {
    trip {
      uuid
      waypoints
    }
  }
}`

const getReceiptQuery = `query GetReceipt($tripUUID: String!, $timestamp: String) {
  getReceipt(tripUUID: $tripUUID, timestamp: $timestamp) {
    receiptsForJob {
      timestamp
      type
    }
    receiptData
  }
}`
